package placement

import (
	"context"
	"errors"
	"testing"
)

func TestAddCompanyDuplicateName(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddCompany(ctx, Company{Name: "Acme Corp"}); err != nil {
		t.Fatalf("first AddCompany: %v", err)
	}
	// Uniqueness is case-insensitive.
	if _, err := svc.AddCompany(ctx, Company{Name: "acme corp"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAddCompanyRequiresName(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.AddCompany(context.Background(), Company{Name: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPostJobUnknownCompany(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.PostJob(context.Background(), Job{Title: "SDE", CompanyID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSendNoticeDefaultsReceiver(t *testing.T) {
	svc, _, _, _ := newTestService()
	n, err := svc.SendNotice(context.Background(), Notice{
		Sender: "tpo@college.edu", SenderRole: "tpo_admin",
		Title: "Drive", Message: "Campus drive on Monday",
	})
	if err != nil {
		t.Fatalf("SendNotice: %v", err)
	}
	if n.ReceiverRole != "student" {
		t.Fatalf("receiver must default to student, got %q", n.ReceiverRole)
	}
	if n.ID == "" {
		t.Fatal("notice id not assigned")
	}
}

func TestSendNoticeRequiresMessage(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.SendNotice(context.Background(), Notice{Title: "Empty"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateAlumniValidation(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	base := Alumni{
		FirstName: "Neha", LastName: "Shah", Email: "neha@college.edu",
		UIN: "UIN-100", Department: "Computer", PassingYear: 2023,
	}

	created, err := svc.CreateAlumni(ctx, base)
	if err != nil {
		t.Fatalf("CreateAlumni: %v", err)
	}
	if created.PlacementStatus != StatusNotPlaced {
		t.Fatalf("status must default to %q, got %q", StatusNotPlaced, created.PlacementStatus)
	}

	bad := base
	bad.UIN = "UIN-101"
	bad.Department = "Astrology"
	if _, err := svc.CreateAlumni(ctx, bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown department must be rejected, got %v", err)
	}

	bad = base
	bad.UIN = "UIN-102"
	bad.PlacementStatus = "Retired"
	if _, err := svc.CreateAlumni(ctx, bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown status must be rejected, got %v", err)
	}
}

func TestCreateAlumniDuplicateUIN(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	base := Alumni{
		FirstName: "Neha", LastName: "Shah", Email: "neha@college.edu",
		UIN: "UIN-200", Department: "Computer", PassingYear: 2023,
	}
	if _, err := svc.CreateAlumni(ctx, base); err != nil {
		t.Fatalf("CreateAlumni: %v", err)
	}
	dup := base
	dup.Email = "other@college.edu"
	if _, err := svc.CreateAlumni(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateAlumniDuplicateStudentLink(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	first := Alumni{
		FirstName: "Raj", LastName: "Mehta", Email: "raj@college.edu",
		UIN: "UIN-300", Department: "Civil", PassingYear: 2022, StudentID: "student-1",
	}
	if _, err := svc.CreateAlumni(ctx, first); err != nil {
		t.Fatalf("CreateAlumni: %v", err)
	}
	second := first
	second.UIN = "UIN-301"
	second.Email = "raj2@college.edu"
	if _, err := svc.CreateAlumni(ctx, second); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for student link, got %v", err)
	}
}

func TestUpdateAlumniUINUniqueness(t *testing.T) {
	svc, _, alumni, _ := newTestService()
	ctx := context.Background()
	a := Alumni{FirstName: "A", LastName: "B", Email: "a@c.edu", UIN: "UIN-1", Department: "ECS", PassingYear: 2021}
	b := Alumni{FirstName: "C", LastName: "D", Email: "c@c.edu", UIN: "UIN-2", Department: "ECS", PassingYear: 2021}
	if err := alumni.Create(ctx, &a); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := alumni.Create(ctx, &b); err != nil {
		t.Fatalf("seed: %v", err)
	}

	taken := "UIN-1"
	if _, err := svc.UpdateAlumni(ctx, b.ID, AlumniUpdate{UIN: &taken}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Re-submitting the record's own UIN is not a conflict.
	same := "UIN-2"
	if _, err := svc.UpdateAlumni(ctx, b.ID, AlumniUpdate{UIN: &same}); err != nil {
		t.Fatalf("own UIN must be accepted: %v", err)
	}
}

func TestAddRecordValidation(t *testing.T) {
	svc, companies, _, _ := newTestService()
	ctx := context.Background()
	c := Company{Name: "Initech"}
	if err := companies.Create(ctx, &c); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.AddRecord(ctx, PlacementRecord{CompanyID: c.ID, Year: 2024, TotalPlaced: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative total must be rejected, got %v", err)
	}
	if _, err := svc.AddRecord(ctx, PlacementRecord{CompanyID: "missing", Year: 2024, TotalPlaced: 3}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown company must be rejected, got %v", err)
	}
	if _, err := svc.AddRecord(ctx, PlacementRecord{CompanyID: c.ID, Year: 2024, TotalPlaced: 3}); err != nil {
		t.Fatalf("AddRecord: %v", err)
	}
}

package httpapi

import (
	"net/http"

	"cpms.org/internal/auth"
	"cpms.org/internal/placement"
)

type noticeRequest struct {
	ReceiverRole string `json:"receiver_role"`
	Title        string `json:"title"`
	Message      string `json:"message"`
}

func (a *API) handleSendNotice(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	var req noticeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	notice, err := a.placements.SendNotice(r.Context(), placement.Notice{
		Sender:       principal.User.Email,
		SenderRole:   principal.User.Role,
		ReceiverRole: req.ReceiverRole,
		Title:        req.Title,
		Message:      req.Message,
	})
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	a.audit(r.Context(), "notice.create", "notice "+notice.Title+" sent to "+notice.ReceiverRole)
	writeJSON(w, http.StatusCreated, notice)
}

func (a *API) handleListNotices(w http.ResponseWriter, r *http.Request) {
	notices, err := a.placements.Notices(r.Context())
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	if notices == nil {
		notices = []placement.Notice{}
	}
	writeJSON(w, http.StatusOK, notices)
}

func (a *API) handleNoticeByID(w http.ResponseWriter, r *http.Request) {
	notice, err := a.placements.Notice(r.Context(), r.PathValue("id"))
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notice)
}

func (a *API) handleDeleteNotice(w http.ResponseWriter, r *http.Request) {
	notice, err := a.placements.DeleteNotice(r.Context(), r.PathValue("id"))
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	a.audit(r.Context(), "notice.delete", "notice "+notice.Title+" deleted")
	writeMsg(w, http.StatusOK, "Notice deleted")
}

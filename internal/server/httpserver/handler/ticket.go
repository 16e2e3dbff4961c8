package handler

import "net/http"

// TicketDetail handles GET /tickets/{id}.
func (h *Handler) TicketDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.tickets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, detail)
}

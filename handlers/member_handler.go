package handlers

import (
	"net/http"

	"github.com/sportleague/league-system/middleware"
	"github.com/sportleague/league-system/services"
)

type MemberHandler struct {
	memberService services.MemberService
}

func NewMemberHandler(ms services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: ms}
}

func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMemberInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	member, err := h.memberService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"member": member}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MemberHandler) GetMemberByID(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	member, err := h.memberService.GetProfile(r.Context(), memberID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"member": member}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetProfile возвращает профиль текущего авторизованного члена.
func (h *MemberHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	memberID, err := middleware.GetMemberIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current member")
		return
	}

	member, err := h.memberService.GetProfile(r.Context(), memberID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"member": member}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.memberService.Delete(r.Context(), memberID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"report": report}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"net/http"

	"github.com/sportleague/league-system/middleware"
	"github.com/sportleague/league-system/repositories"
	"github.com/sportleague/league-system/services"
)

type EquipmentHandler struct {
	equipmentService services.EquipmentService
}

func NewEquipmentHandler(es services.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: es}
}

func (h *EquipmentHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var input services.EquipmentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	eq, err := h.equipmentService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"equipment": eq}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EquipmentHandler) GetEquipmentByID(w http.ResponseWriter, r *http.Request) {
	equipmentID, err := getIDFromURL(r, "equipmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	eq, err := h.equipmentService.GetByID(r.Context(), equipmentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"equipment": eq}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EquipmentHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	onlyAvailable := r.URL.Query().Get("available") == "true"

	items, err := h.equipmentService.List(r.Context(), onlyAvailable)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"equipment": items}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EquipmentHandler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	equipmentID, err := getIDFromURL(r, "equipmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.EquipmentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	eq, err := h.equipmentService.Update(r.Context(), equipmentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"equipment": eq}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EquipmentHandler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	equipmentID, err := getIDFromURL(r, "equipmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.equipmentService.Delete(r.Context(), equipmentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BorrowEquipment выдаёт инвентарь. Получатель — member_id из тела, либо
// текущий член, если поле не задано.
func (h *EquipmentHandler) BorrowEquipment(w http.ResponseWriter, r *http.Request) {
	equipmentID, err := getIDFromURL(r, "equipmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		MemberID int `json:"member_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	memberID := input.MemberID
	if memberID == 0 {
		memberID, err = middleware.GetMemberIDFromContext(r.Context())
		if err != nil {
			unauthorizedResponse(w, r, "failed to identify current member")
			return
		}
	}

	log, err := h.equipmentService.Borrow(r.Context(), equipmentID, memberID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"log": log}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EquipmentHandler) ReturnEquipment(w http.ResponseWriter, r *http.Request) {
	logID, err := getIDFromURL(r, "logID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ReturnEquipmentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	log, err := h.equipmentService.Return(r.Context(), logID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"log": log}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EquipmentHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListEquipmentLogsFilter
	var err error

	if filter.EquipmentID, err = getOptionalIntQuery(r, "equipment_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.MemberID, err = getOptionalIntQuery(r, "member_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter.OnlyIssued = r.URL.Query().Get("issued") == "true"

	logs, err := h.equipmentService.ListLogs(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"logs": logs}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

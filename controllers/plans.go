package controllers

import (
	"net/http"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"
)

// PlanListHandler returns the active plan catalog, cheapest first.
func PlanListHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	var plans []models.Plan
	if err := db.Where("status = ?", "Active").Order("amount ASC").Find(&plans).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    plans,
	})
}

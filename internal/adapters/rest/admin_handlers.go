package rest

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port/usecases_port"
)

type AdminHandler struct {
	*views
	statsUC    usecases_port.GetDashboardStatsUseCasePort
	buildingUC usecases_port.GetBuildingOverviewUseCasePort
}

func NewAdminHandler(v *views,
	statsUC usecases_port.GetDashboardStatsUseCasePort,
	buildingUC usecases_port.GetBuildingOverviewUseCasePort) *AdminHandler {
	return &AdminHandler{views: v, statsUC: statsUC, buildingUC: buildingUC}
}

type statCard struct {
	Resource  string
	Count     int
	Available bool
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsUC.Execute(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	cards := make([]statCard, 0, len(constants.AllResources))
	for _, resource := range constants.AllResources {
		cards = append(cards, statCard{
			Resource:  resource,
			Count:     stats.Counts[resource],
			Available: !slices.Contains(stats.Failed, resource),
		})
	}
	h.render(w, r, http.StatusOK, "admin_dashboard", h.page(w, r, "admin.dashboard", cards))
}

type buildingView struct {
	Overview *domain.BuildingOverview
	ReturnTo string
}

func (h *AdminHandler) Building(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}

	overview, err := h.buildingUC.Execute(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	vd := h.page(w, r, "admin.building", buildingView{Overview: overview, ReturnTo: r.URL.Path})
	vd.Title = overview.Building.Title
	h.render(w, r, http.StatusOK, "admin_building", vd)
}

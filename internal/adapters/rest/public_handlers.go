package rest

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port/usecases_port"
)

const homeLatestListings = 8

type PublicHandler struct {
	*views
	browseUC  usecases_port.BrowseListingsUseCasePort
	detailsUC usecases_port.GetListingDetailsUseCasePort
}

func NewPublicHandler(v *views,
	browseUC usecases_port.BrowseListingsUseCasePort,
	detailsUC usecases_port.GetListingDetailsUseCasePort) *PublicHandler {
	return &PublicHandler{views: v, browseUC: browseUC, detailsUC: detailsUC}
}

type homeView struct {
	Latest     []domain.RealEstate
	Categories []domain.MainType
}

func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	res, err := h.browseUC.Execute(r.Context(), domain.ListingFilter{Page: 1, PerPage: homeLatestListings})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	vd := h.page(w, r, "home.title", homeView{
		Latest:     res.Page.Items,
		Categories: res.Dictionaries.MainTypes,
	})
	h.render(w, r, http.StatusOK, "home", vd)
}

type listingsView struct {
	Filter       domain.ListingFilter
	Page         domain.ListingPage
	Dictionaries domain.Dictionaries
	Statuses     []string
	PrevURL      string
	NextURL      string
}

// parseListingFilter читает фильтр из query. Некорректные значения игнорируются.
func parseListingFilter(r *http.Request) domain.ListingFilter {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	return domain.ListingFilter{
		CityID:         queryInt64(r, "city_id"),
		NeighborhoodID: queryInt64(r, "neighborhood_id"),
		MainTypeID:     queryInt64(r, "main_type_id"),
		SubTypeID:      queryInt64(r, "sub_type_id"),
		FinalTypeID:    queryInt64(r, "final_type_id"),
		MinPrice:       queryFloat(r, "min_price"),
		MaxPrice:       queryFloat(r, "max_price"),
		Status:         r.URL.Query().Get("status"),
		Page:           page,
	}
}

func pageURL(filter domain.ListingFilter, page int) string {
	params := filter.QueryParams()
	params.Set("page", strconv.Itoa(page))
	return "/listings?" + params.Encode()
}

func (h *PublicHandler) Listings(w http.ResponseWriter, r *http.Request) {
	res, err := h.browseUC.Execute(r.Context(), parseListingFilter(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	view := listingsView{
		Filter:       res.Filter,
		Page:         res.Page,
		Dictionaries: res.Dictionaries,
		Statuses:     []string{domain.ListingStatusAvailable, domain.ListingStatusSold, domain.ListingStatusRented},
	}
	if res.Page.HasPrev() {
		view.PrevURL = pageURL(res.Filter, res.Page.Page-1)
	}
	if res.Page.HasNext() {
		view.NextURL = pageURL(res.Filter, res.Page.Page+1)
	}
	h.render(w, r, http.StatusOK, "listings", h.page(w, r, "listings.title", view))
}

type listingView struct {
	Details *domain.ListingDetails
	MapURL  string
}

func (h *PublicHandler) ListingDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}

	details, err := h.detailsUC.Execute(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	view := listingView{Details: details}
	if details.Listing.HasLocation() {
		lat, lng := details.Listing.Coordinates()
		q := url.Values{}
		q.Set("mlat", strconv.FormatFloat(lat, 'f', 6, 64))
		q.Set("mlon", strconv.FormatFloat(lng, 'f', 6, 64))
		view.MapURL = "https://www.openstreetmap.org/?" + q.Encode()
	}
	vd := h.page(w, r, "listing.title", view)
	vd.Title = details.Listing.Title
	h.render(w, r, http.StatusOK, "listing", vd)
}

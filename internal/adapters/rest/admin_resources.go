package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port/usecases_port"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/i18n"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

// optionLoader возвращает варианты выбора для полей-ссылок.
type optionLoader func(ctx context.Context) ([]option, error)

// adminResource - ресурс админки, который умеет зарегистрировать свои маршруты.
type adminResource interface {
	Name() string
	Options(ctx context.Context) ([]option, error)
	Routes(r chi.Router)
	setOptionLoaders(loaders map[string]optionLoader)
}

// entityMap - JSON-представление сущности, по нему строятся таблица и форма.
func entityMap(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// entityLabel - подпись сущности в выпадающих списках.
func entityLabel(m map[string]any) string {
	for _, key := range []string{"name", "title", "unit_number"} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return "#" + formatValue(m["id"])
}

type resourceHandler[T domain.Entity] struct {
	*views
	uc      usecases_port.ManageCatalogUseCasePort[T]
	fields  []formField
	options map[string]optionLoader
}

func newResourceHandler[T domain.Entity](v *views, uc usecases_port.ManageCatalogUseCasePort[T], fields []formField) *resourceHandler[T] {
	return &resourceHandler[T]{views: v, uc: uc, fields: fields}
}

func (h *resourceHandler[T]) Name() string { return h.uc.Resource() }

func (h *resourceHandler[T]) setOptionLoaders(loaders map[string]optionLoader) {
	h.options = loaders
}

func (h *resourceHandler[T]) Options(ctx context.Context) ([]option, error) {
	items, err := h.uc.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(items))
	for _, item := range items {
		opts = append(opts, option{
			Value: strconv.FormatInt(item.EntityID(), 10),
			Label: entityLabel(entityMap(item)),
		})
	}
	return opts, nil
}

func (h *resourceHandler[T]) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.New)
	r.Post("/", h.Create)
	r.Get("/{id}/edit", h.Edit)
	r.Post("/{id}", h.Update)
	r.Post("/{id}/delete", h.Delete)
}

func (h *resourceHandler[T]) basePath() string { return "/admin/" + h.Name() }

type listRow struct {
	ID      int64
	Cells   []string
	EditURL string
}

type listView struct {
	Resource  string
	BasePath  string
	Columns   []string
	Rows      []listRow
	Buildings bool
}

// loadOptions загружает варианты для всех полей-ссылок. Недоступный
// справочник дает пустой список, а не ошибку страницы.
func (h *resourceHandler[T]) loadOptions(ctx context.Context) map[string][]option {
	out := make(map[string][]option)
	for _, f := range h.fields {
		if f.Kind != kindRef {
			continue
		}
		if _, done := out[f.Ref]; done {
			continue
		}
		loader, ok := h.options[f.Ref]
		if !ok {
			continue
		}
		opts, err := loader(ctx)
		if err != nil {
			contextkeys.LoggerFromContext(ctx).Warn("Failed to load options", port.Fields{"ref": f.Ref, "error": err.Error()})
			opts = nil
		}
		out[f.Ref] = opts
	}
	return out
}

func (h *resourceHandler[T]) cell(t *i18n.Translator, f formField, value any, opts map[string][]option) string {
	text := formatValue(value)
	switch f.Kind {
	case kindRef:
		for _, o := range opts[f.Ref] {
			if o.Value == text {
				return o.Label
			}
		}
	case kindEnum:
		if text != "" {
			return t.TOr(f.EnumPrefix+text, text)
		}
	case kindFloat:
		if v, ok := value.(float64); ok {
			return t.Number(v)
		}
	}
	return text
}

func (h *resourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	// В бэкенд уходят только фильтры по ссылкам, например building_id.
	params := url.Values{}
	for _, f := range h.fields {
		if v := r.URL.Query().Get(f.Name); f.Kind == kindRef && v != "" {
			params.Set(f.Name, v)
		}
	}
	items, err := h.uc.List(r.Context(), params)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	vd := h.page(w, r, "resource."+h.Name(), nil)
	opts := h.loadOptions(r.Context())

	view := listView{Resource: h.Name(), BasePath: h.basePath(), Buildings: h.Name() == "buildings"}
	for _, f := range h.fields {
		if f.InList {
			view.Columns = append(view.Columns, vd.T.T("field."+f.Name))
		}
	}
	for _, item := range items {
		m := entityMap(item)
		row := listRow{ID: item.EntityID()}
		row.EditURL = h.basePath() + "/" + strconv.FormatInt(row.ID, 10) + "/edit"
		for _, f := range h.fields {
			if f.InList {
				row.Cells = append(row.Cells, h.cell(vd.T, f, m[f.Name], opts))
			}
		}
		view.Rows = append(view.Rows, row)
	}

	vd.Data = view
	h.render(w, r, http.StatusOK, "admin_list", vd)
}

type fieldView struct {
	Name     string
	Label    string
	Kind     string
	Required bool
	Value    string
	Options  []option
	Error    string
}

type formView struct {
	Resource string
	Action   string
	IsNew    bool
	ReturnTo string
	Fields   []fieldView
}

func (h *resourceHandler[T]) formView(ctx context.Context, t *i18n.Translator, action string, isNew bool, returnTo string, values map[string]string, errs map[string]string) formView {
	opts := h.loadOptions(ctx)
	view := formView{Resource: h.Name(), Action: action, IsNew: isNew, ReturnTo: returnTo}
	for _, f := range h.fields {
		fv := fieldView{
			Name:     f.Name,
			Label:    t.T("field." + f.Name),
			Kind:     string(f.Kind),
			Required: f.Required,
			Value:    values[f.Name],
		}
		if key, ok := errs[f.Name]; ok {
			fv.Error = t.T(key)
		}
		switch f.Kind {
		case kindRef:
			for _, o := range opts[f.Ref] {
				o.Selected = o.Value == fv.Value
				fv.Options = append(fv.Options, o)
			}
		case kindEnum:
			for _, e := range f.Enum {
				fv.Options = append(fv.Options, option{Value: e, Label: t.TOr(f.EnumPrefix+e, e), Selected: e == fv.Value})
			}
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}

func (h *resourceHandler[T]) returnTo(r *http.Request) string {
	target := r.URL.Query().Get("return_to")
	if r.Method == http.MethodPost {
		target = r.PostForm.Get("return_to")
	}
	return safeRedirect(target, h.basePath())
}

func (h *resourceHandler[T]) New(w http.ResponseWriter, r *http.Request) {
	// Поля можно предзаполнить из query, например building_id с экрана здания.
	values := make(map[string]string)
	for _, f := range h.fields {
		if v := r.URL.Query().Get(f.Name); v != "" {
			values[f.Name] = v
		}
	}
	vd := h.page(w, r, "admin.new", nil)
	vd.Title = vd.T.T("admin.new") + ": " + vd.T.T("resource."+h.Name())
	vd.Data = h.formView(r.Context(), vd.T, h.basePath(), true, h.returnTo(r), values, nil)
	h.render(w, r, http.StatusOK, "admin_form", vd)
}

func (h *resourceHandler[T]) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	item, err := h.uc.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	values := make(map[string]string)
	m := entityMap(item)
	for _, f := range h.fields {
		values[f.Name] = formatValue(m[f.Name])
	}

	vd := h.page(w, r, "admin.edit", nil)
	vd.Title = vd.T.T("admin.edit") + ": " + entityLabel(m)
	vd.Data = h.formView(r.Context(), vd.T, h.basePath()+"/"+strconv.FormatInt(id, 10), false, h.returnTo(r), values, nil)
	h.render(w, r, http.StatusOK, "admin_form", vd)
}

func (h *resourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, 0)
}

func (h *resourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	h.save(w, r, id)
}

// save обрабатывает создание (id == 0) и изменение. Ошибки формы
// возвращают форму с введенными значениями.
func (h *resourceHandler[T]) save(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}

	payload, verr := parsePayload(h.fields, r.PostForm.Get)
	var err error
	if verr != nil {
		err = verr
	} else if id == 0 {
		_, err = h.uc.Create(r.Context(), payload)
	} else {
		_, err = h.uc.Update(r.Context(), id, payload)
	}

	if err == nil {
		key := "toast.updated"
		if id == 0 {
			key = "toast.created"
		}
		setFlash(w, toastSuccess, key)
		http.Redirect(w, r, h.returnTo(r), http.StatusSeeOther)
		return
	}

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) &&
		(errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrNotFound)) {
		h.handleError(w, r, err)
		return
	}

	values := make(map[string]string, len(h.fields))
	for _, f := range h.fields {
		values[f.Name] = r.PostForm.Get(f.Name)
	}

	titleKey, action := "admin.new", h.basePath()
	if id != 0 {
		titleKey, action = "admin.edit", h.basePath()+"/"+strconv.FormatInt(id, 10)
	}
	vd := h.page(w, r, titleKey, nil)
	vd.Title = vd.T.T(titleKey) + ": " + vd.T.T("resource."+h.Name())

	status := http.StatusUnprocessableEntity
	var fieldErrs map[string]string
	if validationErr != nil {
		fieldErrs = validationErr.Fields
		vd.Toast = &toast{Kind: toastError, Message: vd.T.T("toast.invalid_form")}
	} else {
		contextkeys.LoggerFromContext(r.Context()).Error("Failed to save entity", err, port.Fields{"resource": h.Name()})
		status = http.StatusBadGateway
		vd.Toast = &toast{Kind: toastError, Message: vd.T.T("toast.generic_error")}
	}
	vd.Data = h.formView(r.Context(), vd.T, action, id == 0, h.returnTo(r), values, fieldErrs)
	h.render(w, r, status, "admin_form", vd)
}

func (h *resourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}

	if err := h.uc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden) {
			h.handleError(w, r, err)
			return
		}
		contextkeys.LoggerFromContext(r.Context()).Error("Failed to delete entity", err, port.Fields{"resource": h.Name(), "id": id})
		setFlash(w, toastError, "toast.generic_error")
		http.Redirect(w, r, h.returnTo(r), http.StatusSeeOther)
		return
	}

	setFlash(w, toastSuccess, "toast.deleted")
	http.Redirect(w, r, h.returnTo(r), http.StatusSeeOther)
}

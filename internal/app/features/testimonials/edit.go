// internal/app/features/testimonials/edit.go
package testimonials

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/merrittsmen/clubhub/internal/app/policy/testimonialpolicy"
	testimonialstore "github.com/merrittsmen/clubhub/internal/app/store/testimonials"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// testimonialFormData feeds the new/edit form template.
type testimonialFormData struct {
	viewdata.BaseVM
	Error     string
	Editing   bool
	EditID    string
	FormTitle string
	Content   string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /testimonials/new, POST /testimonials                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, testimonialFormData{})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if !testimonialpolicy.CanCreate(u) {
		h.ErrLog.LogForbidden(w, r, "testimonial create by unapproved user", "You cannot post testimonials yet.", "/testimonials")
		return
	}
	userID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bad session user id", err, "Something went wrong.", "/testimonials")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse testimonial form failed", err, "Invalid form data.", "/testimonials")
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tm, err := h.Testimonials.Create(ctx, models.Testimonial{
		UserID:  userID,
		Title:   title,
		Content: content,
	})
	if err != nil {
		if errors.Is(err, testimonialstore.ErrEmptyContent) {
			h.renderForm(w, r, testimonialFormData{
				Error:     "Please write something before posting.",
				FormTitle: title,
				Content:   content,
			})
			return
		}
		h.ErrLog.LogServerError(w, r, "create testimonial failed", err, "Failed to save your testimonial.", "/testimonials")
		return
	}

	h.AuditLog.TestimonialCreated(ctx, r, userID, tm.ID)
	http.Redirect(w, r, "/testimonials", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /testimonials/{id}/edit, POST /testimonials/{id}/edit                   |
| Author-only: being an admin does not let you rewrite someone's story.       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	tm, ok := h.loadForRequest(w, r)
	if !ok {
		return
	}
	if !testimonialpolicy.CanEdit(u, tm.UserID) {
		h.ErrLog.LogForbidden(w, r, "testimonial edit denied", "Only the author can edit a testimonial.", "/testimonials")
		return
	}

	h.renderForm(w, r, testimonialFormData{
		Editing:   true,
		EditID:    tm.ID.Hex(),
		FormTitle: tm.Title,
		Content:   tm.Content,
	})
}

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	tm, ok := h.loadForRequest(w, r)
	if !ok {
		return
	}
	if !testimonialpolicy.CanEdit(u, tm.UserID) {
		h.ErrLog.LogForbidden(w, r, "testimonial edit denied", "Only the author can edit a testimonial.", "/testimonials")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse testimonial form failed", err, "Invalid form data.", "/testimonials")
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Testimonials.Update(ctx, tm.ID, title, content); err != nil {
		if errors.Is(err, testimonialstore.ErrEmptyContent) {
			h.renderForm(w, r, testimonialFormData{
				Error:     "Please write something before saving.",
				Editing:   true,
				EditID:    tm.ID.Hex(),
				FormTitle: title,
				Content:   content,
			})
			return
		}
		h.ErrLog.LogServerError(w, r, "update testimonial failed", err, "Failed to save your changes.", "/testimonials")
		return
	}

	actorID, _ := primitive.ObjectIDFromHex(u.ID)
	h.AuditLog.TestimonialUpdated(ctx, r, actorID, tm.ID)
	http.Redirect(w, r, "/testimonials", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /testimonials/{id}/delete                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	tm, ok := h.loadForRequest(w, r)
	if !ok {
		return
	}
	if !testimonialpolicy.CanDelete(u, tm.UserID) {
		h.ErrLog.LogForbidden(w, r, "testimonial delete denied", "You can only delete your own testimonials.", "/testimonials")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Testimonials.Delete(ctx, tm.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete testimonial failed", err, "Failed to delete the testimonial.", "/testimonials")
		return
	}

	actorID, _ := primitive.ObjectIDFromHex(u.ID)
	h.AuditLog.TestimonialDeleted(ctx, r, actorID, tm.ID)
	http.Redirect(w, r, "/testimonials", http.StatusSeeOther)
}

// loadForRequest resolves {testimonialID} and loads the row, rendering
// the not-found page itself when it can't. The bool reports success.
func (h *Handler) loadForRequest(w http.ResponseWriter, r *http.Request) (models.Testimonial, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "testimonialID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad testimonial id", "Testimonial not found.", "/testimonials")
		return models.Testimonial{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	tm, err := h.Testimonials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "unknown testimonial", "Testimonial not found.", "/testimonials")
			return models.Testimonial{}, false
		}
		h.ErrLog.LogServerError(w, r, "load testimonial failed", err, "Could not load the testimonial.", "/testimonials")
		return models.Testimonial{}, false
	}
	return tm, true
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data testimonialFormData) {
	title := "New Testimonial"
	if data.Editing {
		title = "Edit Testimonial"
	}
	data.BaseVM = viewdata.NewBaseVM(r, title, "/testimonials")
	templates.Render(w, r, "testimonial_form", data)
}

// internal/app/features/books/delete.go
package books

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/merrittsmen/clubhub/internal/app/policy/reviewpolicy"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /reviews/{reviewID}/delete                                             |
| The metadata row is removed first and its failure aborts; the blob          |
| delete afterwards is best-effort. A failure there leaves an orphan          |
| file, never a dangling link.                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteReview(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	reviewID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad review id in delete", "Review not found.", "/books")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rv, err := h.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "delete of unknown review", "Review not found.", "/books")
			return
		}
		h.ErrLog.LogServerError(w, r, "load review failed", err, "Could not load the review.", "/books")
		return
	}

	if !reviewpolicy.CanDelete(u, rv.UserID) {
		h.ErrLog.LogForbidden(w, r, "review delete denied", "You can only delete your own reviews.", "/books")
		return
	}

	if err := h.Reviews.Delete(ctx, reviewID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete review failed", err, "Failed to delete the review.", "/books")
		return
	}

	if err := h.Storage.Delete(ctx, rv.FilePath); err != nil {
		h.Log.Warn("review blob delete failed; file orphaned",
			zap.String("path", rv.FilePath), zap.Error(err))
	}

	actorID, _ := primitive.ObjectIDFromHex(u.ID)
	h.AuditLog.ReviewDeleted(ctx, r, actorID, reviewID, rv.BookID)
	h.Log.Info("review deleted",
		zap.String("review_id", reviewID.Hex()),
		zap.String("actor_id", u.ID))

	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

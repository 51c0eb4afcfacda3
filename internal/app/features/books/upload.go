// internal/app/features/books/upload.go
package books

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/merrittsmen/clubhub/internal/app/policy/reviewpolicy"
	reviewstore "github.com/merrittsmen/clubhub/internal/app/store/reviews"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/domain/faults"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxReviewUpload caps a review file at 32 MB, matching the multipart
// memory limit.
const maxReviewUpload = 32 << 20

/*─────────────────────────────────────────────────────────────────────────────*
| POST /books/{bookID}/reviews – attach a review file                         |
| Blob goes into storage first, then the metadata row; if the insert          |
| fails the blob is deleted again so no orphan file survives the request.     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUploadReview(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if !reviewpolicy.CanUpload(u) {
		h.ErrLog.LogForbidden(w, r, "review upload by unapproved user", "You cannot upload reviews yet.", "/books")
		return
	}
	userID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bad session user id", err, "Something went wrong.", "/books")
		return
	}

	bookID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "bookID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad book id in upload", "Book not found.", "/books")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	book, err := h.Books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "upload to unknown book", "Book not found.", "/books")
			return
		}
		h.ErrLog.LogServerError(w, r, "load book failed", err, "Could not load the book.", "/books")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReviewUpload)
	if err := r.ParseMultipartForm(maxReviewUpload); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse upload form failed", err, "The file is too large or the form was invalid.", "/books")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil || header == nil || header.Size == 0 {
		h.ErrLog.LogBadRequest(w, r, "upload without file", err, "Choose a file to upload.", "/books")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := reviewstore.StorageKey(userID, bookID, header.Filename, time.Now().UTC())

	upCtx, upCancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer upCancel()

	if err := h.Storage.Put(upCtx, key, file, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.Log.Error("review blob upload failed", zap.Error(faults.Storage("put", err)),
			zap.String("key", key))
		h.ErrLog.LogServerError(w, r, "review blob upload failed", err, "Failed to store the file. Please try again.", "/books")
		return
	}

	// The multipart parse and blob write above can outlast the first
	// deadline; the metadata insert gets a fresh one.
	insCtx, insCancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer insCancel()

	rv, err := h.Reviews.Create(insCtx, models.Review{
		BookID:   book.ID,
		UserID:   userID,
		FilePath: key,
		FileName: header.Filename,
	})
	if err != nil {
		// Compensating delete keeps storage free of rows-less blobs. It
		// runs on its own context so it still happens when the request
		// context is already dead.
		delCtx, delCancel := context.WithTimeout(context.Background(), timeouts.Medium())
		defer delCancel()
		if delErr := h.Storage.Delete(delCtx, key); delErr != nil {
			h.Log.Warn("failed to clean up blob after insert error",
				zap.String("key", key), zap.Error(delErr))
		}
		h.ErrLog.LogServerError(w, r, "create review failed", faults.Mutation("review insert", err), "Failed to save the review.", "/books")
		return
	}

	h.AuditLog.ReviewUploaded(insCtx, r, userID, rv.ID, book.ID, rv.FileName)
	h.Log.Info("review uploaded",
		zap.String("review_id", rv.ID.Hex()),
		zap.String("book_id", book.ID.Hex()),
		zap.String("user_id", u.ID))

	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

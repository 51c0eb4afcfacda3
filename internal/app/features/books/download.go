// internal/app/features/books/download.go
package books

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/merrittsmen/clubhub/internal/app/policy/reviewpolicy"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /reviews/{reviewID}/download                                            |
| Local storage serves the file directly; S3 redirects to a presigned URL.    |
| Either way the browser gets the original upload filename.                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDownloadReview(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if !reviewpolicy.CanDownload(u) {
		h.ErrLog.LogForbidden(w, r, "review download by unapproved user", "You cannot download reviews yet.", "/books")
		return
	}

	reviewID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad review id in download", "Review not found.", "/books")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rv, err := h.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "download of unknown review", "Review not found.", "/books")
			return
		}
		h.ErrLog.LogServerError(w, r, "load review failed", err, "Could not load the review.", "/books")
		return
	}

	filename := rv.FileName
	if filename == "" {
		filename = "review"
	}
	// FormatMediaType quotes and escapes the filename, which may carry
	// arbitrary characters from the original upload.
	contentDisposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})

	// Downloads must not be cached: a deleted review's file should not
	// come back from a proxy.
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if localStorage, ok := h.Storage.(*storage.Local); ok {
		fullPath, err := localStorage.GetFullPath(rv.FilePath)
		if err != nil {
			h.Log.Error("error getting file path", zap.Error(err),
				zap.String("path", rv.FilePath))
			h.ErrLog.LogServerError(w, r, "locate review file failed", err, "Failed to locate the file.", "/books")
			return
		}
		w.Header().Set("Content-Disposition", contentDisposition)
		http.ServeFile(w, r, fullPath)
		return
	}

	signedURL, err := h.Storage.PresignedURL(ctx, rv.FilePath, &storage.PresignOptions{
		Expires:            15 * time.Minute,
		ContentDisposition: contentDisposition,
	})
	if err != nil {
		h.Log.Error("error generating signed URL", zap.Error(err),
			zap.String("path", rv.FilePath))
		h.ErrLog.LogServerError(w, r, "presign review download failed", err, "Failed to generate the download link.", "/books")
		return
	}
	http.Redirect(w, r, signedURL, http.StatusSeeOther)
}

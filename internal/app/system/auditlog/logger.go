// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"

	"github.com/merrittsmen/clubhub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration. Each category takes one of:
// "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off".
type Config struct {
	// Auth controls logging for authentication events (register, login, logout).
	Auth string
	// Admin controls logging for admin actions (approvals, roster and book CRUD).
	Admin string
	// Content controls logging for member actions (reviews, testimonials).
	Content string
}

// Logger provides convenience methods for recording audit events.
// It logs to MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request, preferring the
// reverse-proxy headers.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to the category's configuration.
// A nil logger is a no-op, so tests can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategoryContent:
		setting = l.config.Content
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// Registered logs a new account registration.
func (l *Logger) Registered(ctx context.Context, r *http.Request, userID primitive.ObjectID, email, authMethod string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventRegistered,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"email":       email,
			"auth_method": authMethod,
		},
	})
}

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"auth_method": authMethod,
			"email":       email,
		},
	})
}

// LoginFailedUserNotFound logs a failed login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details: map[string]string{
			"attempted_email": attemptedEmail,
		},
	})
}

// LoginFailedWrongPassword logs a failed login due to a wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailedWrongMethod logs a password login against a Google-only
// account (or the reverse).
func (l *Logger) LoginFailedWrongMethod(ctx context.Context, r *http.Request, userID primitive.ObjectID, email, accountMethod string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongMethod,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong auth method",
		Details: map[string]string{
			"email":          email,
			"account_method": accountMethod,
		},
	})
}

// Logout logs a user logout. Accepts the string ID from SessionUser.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	var userID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		userID = &oid
	}

	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Admin Events ---

func (l *Logger) adminEvent(ctx context.Context, r *http.Request, eventType string, actorID primitive.ObjectID, userID *primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		UserID:    userID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}

// UserApproved logs an admin approving a pending user.
func (l *Logger) UserApproved(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, email string) {
	l.adminEvent(ctx, r, audit.EventUserApproved, actorID, &targetUserID, map[string]string{
		"email": email,
	})
}

// UserRevoked logs an admin revoking a user's access. Revoking clears
// both the approved and admin flags, so the one event covers both.
func (l *Logger) UserRevoked(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, email string) {
	l.adminEvent(ctx, r, audit.EventUserRevoked, actorID, &targetUserID, map[string]string{
		"email": email,
	})
}

// UserPromoted logs an admin promoting a user to admin.
func (l *Logger) UserPromoted(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, email string) {
	l.adminEvent(ctx, r, audit.EventUserPromoted, actorID, &targetUserID, map[string]string{
		"email": email,
	})
}

// UserDeleted logs an admin deleting a user account.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, email string) {
	l.adminEvent(ctx, r, audit.EventUserDeleted, actorID, &targetUserID, map[string]string{
		"email": email,
	})
}

// GroupCreated logs an admin creating a group.
func (l *Logger) GroupCreated(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID, groupName string) {
	l.adminEvent(ctx, r, audit.EventGroupCreated, actorID, nil, map[string]string{
		"group_id":   groupID.Hex(),
		"group_name": groupName,
	})
}

// GroupUpdated logs an admin updating a group.
func (l *Logger) GroupUpdated(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID, groupName string) {
	l.adminEvent(ctx, r, audit.EventGroupUpdated, actorID, nil, map[string]string{
		"group_id":   groupID.Hex(),
		"group_name": groupName,
	})
}

// GroupDeleted logs an admin deleting a group (and its roster).
func (l *Logger) GroupDeleted(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID, groupName string) {
	l.adminEvent(ctx, r, audit.EventGroupDeleted, actorID, nil, map[string]string{
		"group_id":   groupID.Hex(),
		"group_name": groupName,
	})
}

// MemberAdded logs an admin adding a member to a group roster.
func (l *Logger) MemberAdded(ctx context.Context, r *http.Request, actorID, memberID, groupID primitive.ObjectID, memberName string) {
	l.adminEvent(ctx, r, audit.EventMemberAdded, actorID, nil, map[string]string{
		"member_id":   memberID.Hex(),
		"group_id":    groupID.Hex(),
		"member_name": memberName,
	})
}

// MemberUpdated logs an admin editing a roster entry.
func (l *Logger) MemberUpdated(ctx context.Context, r *http.Request, actorID, memberID, groupID primitive.ObjectID, memberName string) {
	l.adminEvent(ctx, r, audit.EventMemberUpdated, actorID, nil, map[string]string{
		"member_id":   memberID.Hex(),
		"group_id":    groupID.Hex(),
		"member_name": memberName,
	})
}

// MemberRemoved logs an admin removing a member from a group roster.
func (l *Logger) MemberRemoved(ctx context.Context, r *http.Request, actorID, memberID, groupID primitive.ObjectID, memberName string) {
	l.adminEvent(ctx, r, audit.EventMemberRemoved, actorID, nil, map[string]string{
		"member_id":   memberID.Hex(),
		"group_id":    groupID.Hex(),
		"member_name": memberName,
	})
}

// BookCreated logs an admin adding a book to the catalog.
func (l *Logger) BookCreated(ctx context.Context, r *http.Request, actorID, bookID primitive.ObjectID, title string) {
	l.adminEvent(ctx, r, audit.EventBookCreated, actorID, nil, map[string]string{
		"book_id": bookID.Hex(),
		"title":   title,
	})
}

// BookUpdated logs an admin editing a book.
func (l *Logger) BookUpdated(ctx context.Context, r *http.Request, actorID, bookID primitive.ObjectID, title string) {
	l.adminEvent(ctx, r, audit.EventBookUpdated, actorID, nil, map[string]string{
		"book_id": bookID.Hex(),
		"title":   title,
	})
}

// BookDeleted logs an admin deleting a book (and its reviews).
func (l *Logger) BookDeleted(ctx context.Context, r *http.Request, actorID, bookID primitive.ObjectID, title string) {
	l.adminEvent(ctx, r, audit.EventBookDeleted, actorID, nil, map[string]string{
		"book_id": bookID.Hex(),
		"title":   title,
	})
}

// --- Content Events ---

func (l *Logger) contentEvent(ctx context.Context, r *http.Request, eventType string, actorID primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryContent,
		EventType: eventType,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}

// ReviewUploaded logs a member uploading a review file for a book.
func (l *Logger) ReviewUploaded(ctx context.Context, r *http.Request, actorID, reviewID, bookID primitive.ObjectID, fileName string) {
	l.contentEvent(ctx, r, audit.EventReviewUploaded, actorID, map[string]string{
		"review_id": reviewID.Hex(),
		"book_id":   bookID.Hex(),
		"file_name": fileName,
	})
}

// ReviewDeleted logs a review being removed (by its submitter or an admin).
func (l *Logger) ReviewDeleted(ctx context.Context, r *http.Request, actorID, reviewID, bookID primitive.ObjectID) {
	l.contentEvent(ctx, r, audit.EventReviewDeleted, actorID, map[string]string{
		"review_id": reviewID.Hex(),
		"book_id":   bookID.Hex(),
	})
}

// TestimonialCreated logs a member posting a testimonial.
func (l *Logger) TestimonialCreated(ctx context.Context, r *http.Request, actorID, testimonialID primitive.ObjectID) {
	l.contentEvent(ctx, r, audit.EventTestimonialCreated, actorID, map[string]string{
		"testimonial_id": testimonialID.Hex(),
	})
}

// TestimonialUpdated logs an author editing their testimonial.
func (l *Logger) TestimonialUpdated(ctx context.Context, r *http.Request, actorID, testimonialID primitive.ObjectID) {
	l.contentEvent(ctx, r, audit.EventTestimonialUpdated, actorID, map[string]string{
		"testimonial_id": testimonialID.Hex(),
	})
}

// TestimonialDeleted logs a testimonial being removed (by its author or
// an admin).
func (l *Logger) TestimonialDeleted(ctx context.Context, r *http.Request, actorID, testimonialID primitive.ObjectID) {
	l.contentEvent(ctx, r, audit.EventTestimonialDeleted, actorID, map[string]string{
		"testimonial_id": testimonialID.Hex(),
	})
}

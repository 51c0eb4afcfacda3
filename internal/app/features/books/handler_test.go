package books_test

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/merrittsmen/clubhub/internal/app/features/books"
	uierrors "github.com/merrittsmen/clubhub/internal/app/features/errors"
	"github.com/merrittsmen/clubhub/internal/app/store/audit"
	bookstore "github.com/merrittsmen/clubhub/internal/app/store/books"
	groupstore "github.com/merrittsmen/clubhub/internal/app/store/groups"
	reviewstore "github.com/merrittsmen/clubhub/internal/app/store/reviews"
	userstore "github.com/merrittsmen/clubhub/internal/app/store/users"
	"github.com/merrittsmen/clubhub/internal/app/system/auditlog"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"github.com/merrittsmen/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandlerWithStorage(t *testing.T, db *mongo.Database, store storage.Store) *books.Handler {
	t.Helper()
	auditLog := auditlog.New(audit.New(db), zap.NewNop(), auditlog.Config{Content: "db"})
	return books.NewHandler(
		bookstore.New(db),
		reviewstore.New(db),
		userstore.New(db),
		groupstore.New(db),
		store,
		uierrors.NewErrorLogger(zap.NewNop()),
		auditLog,
		zap.NewNop(),
	)
}

// newTestHandler builds a books handler without a storage backend; the
// paths under test never reach a blob operation.
func newTestHandler(t *testing.T, db *mongo.Database) *books.Handler {
	t.Helper()
	return newTestHandlerWithStorage(t, db, nil)
}

func asMember(u models.User) *testutil.TestUser {
	return &testutil.TestUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Email:    u.Email,
		Approved: u.Approved,
		IsAdmin:  u.IsAdmin,
	}
}

func uploadRequest(t *testing.T, bookID, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := io.Copy(fw, strings.NewReader(content)); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}

	req := httptest.NewRequest("POST", "/books/"+bookID+"/reviews", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithChiURLParam(req, "bookID", bookID)
}

func TestServeList_CompletesReads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fx.CreateGroup(ctx, 2, 2024)
	u := fx.CreateApprovedMember(ctx, "Reviewer", "reviewer@example.com")
	b := fx.CreateBook(ctx, "East of Eden", "John Steinbeck", &g.ID)
	fx.CreateBook(ctx, "Stray Book", "Unknown", nil)
	fx.CreateReview(ctx, b.ID, u.ID, "reviews/x/y.pdf", "eden.pdf")

	handler := newTestHandler(t, db)

	req := testutil.WithUser(httptest.NewRequest("GET", "/books", nil), testutil.ApprovedUser())
	rec := httptest.NewRecorder()

	// Rendering panics without loaded templates; the reads and join run
	// before it.
	func() {
		defer func() { _ = recover() }()
		handler.ServeList(rec, req)
	}()

	if rec.Code >= 400 {
		t.Errorf("unexpected error status %d", rec.Code)
	}
}

func TestHandleUploadReview_UnknownBook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)

	req := httptest.NewRequest("POST", "/books/not-a-hex-id/reviews", nil)
	req = testutil.WithUser(req, testutil.ApprovedUser())
	req = testutil.WithChiURLParam(req, "bookID", "not-a-hex-id")
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleUploadReview(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("upload with a bad book id must not succeed")
	}
}

func TestHandleUploadReview_StoresBlobAndRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	mem := storage.NewMemory(storage.MemoryConfig{})
	handler := newTestHandlerWithStorage(t, db, mem)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateApprovedMember(ctx, "Uploader", "uploader@example.com")
	b := fx.CreateBook(ctx, "Gilead", "Marilynne Robinson", nil)

	req := testutil.WithUser(uploadRequest(t, b.ID.Hex(), "essay.pdf", "file body"), asMember(u))
	rec := httptest.NewRecorder()
	handler.HandleUploadReview(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}

	rvs, err := reviewstore.New(db).ListByBook(ctx, b.ID)
	if err != nil || len(rvs) != 1 {
		t.Fatalf("expected one review row, got %d (err %v)", len(rvs), err)
	}
	rv := rvs[0]
	if rv.FileName != "essay.pdf" {
		t.Errorf("expected file_name essay.pdf, got %q", rv.FileName)
	}
	if !strings.Contains(rv.FilePath, u.ID.Hex()) || !strings.Contains(rv.FilePath, b.ID.Hex()) {
		t.Errorf("storage key %q should contain the user and book ids", rv.FilePath)
	}
	exists, err := mem.Exists(ctx, rv.FilePath)
	if err != nil || !exists {
		t.Errorf("expected blob at %q, got exists=%v err=%v", rv.FilePath, exists, err)
	}
}

// cancelAfterPut ends the request's context once the blob write has
// completed, which makes the following metadata insert fail.
type cancelAfterPut struct {
	storage.Store
	cancel context.CancelFunc
}

func (s *cancelAfterPut) Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error {
	err := s.Store.Put(ctx, path, r, opts)
	s.cancel()
	return err
}

func TestHandleUploadReview_CleansUpBlobWhenInsertFails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	mem := storage.NewMemory(storage.MemoryConfig{})

	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateApprovedMember(ctx, "Uploader", "uploader@example.com")
	b := fx.CreateBook(ctx, "Gilead", "Marilynne Robinson", nil)

	req := testutil.WithUser(uploadRequest(t, b.ID.Hex(), "essay.pdf", "file body"), asMember(u))
	reqCtx, reqCancel := context.WithCancel(req.Context())
	defer reqCancel()
	req = req.WithContext(reqCtx)

	handler := newTestHandlerWithStorage(t, db, &cancelAfterPut{Store: mem, cancel: reqCancel})
	rec := httptest.NewRecorder()

	// The error page render panics without loaded templates; the
	// compensating delete has already run by then.
	func() {
		defer func() { _ = recover() }()
		handler.HandleUploadReview(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("a failed insert must not redirect as success")
	}
	rvs, err := reviewstore.New(db).ListByBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListByBook failed: %v", err)
	}
	if len(rvs) != 0 {
		t.Errorf("expected no review rows after the failed insert, got %d", len(rvs))
	}
	res, err := mem.List(ctx, "reviews/", nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(res.Objects) != 0 {
		t.Errorf("expected the blob to be cleaned up, found %d objects", len(res.Objects))
	}
}

func TestHandleDownloadReview_QuotedFilename(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)

	local, err := storage.NewLocal(storage.LocalConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	handler := newTestHandlerWithStorage(t, db, local)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateApprovedMember(ctx, "Reader", "reader@example.com")
	b := fx.CreateBook(ctx, "Hannah Coulter", "Wendell Berry", nil)

	key := "reviews/q/essay.pdf"
	if err := local.PutBytes(ctx, key, []byte("file body"), nil); err != nil {
		t.Fatalf("PutBytes failed: %v", err)
	}
	fileName := `my "own" essay.pdf`
	rv := fx.CreateReview(ctx, b.ID, u.ID, key, fileName)

	req := httptest.NewRequest("GET", "/reviews/"+rv.ID.Hex()+"/download", nil)
	req = testutil.WithUser(req, testutil.ApprovedUser())
	req = testutil.WithChiURLParam(req, "reviewID", rv.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleDownloadReview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("Content-Disposition does not parse: %v", err)
	}
	if disposition != "attachment" {
		t.Errorf("expected attachment disposition, got %q", disposition)
	}
	if params["filename"] != fileName {
		t.Errorf("expected filename %q, got %q", fileName, params["filename"])
	}
}

func TestHandleDeleteReview_OtherMemberDenied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	uploader := fx.CreateApprovedMember(ctx, "Uploader", "uploader@example.com")
	g := fx.CreateGroup(ctx, 1, 2024)
	b := fx.CreateBook(ctx, "Plainsong", "Kent Haruf", &g.ID)
	rv := fx.CreateReview(ctx, b.ID, uploader.ID, "reviews/a/b.pdf", "plainsong.pdf")

	handler := newTestHandler(t, db)

	// A different approved member (not an admin) may not delete it.
	req := httptest.NewRequest("POST", "/reviews/"+rv.ID.Hex()+"/delete", nil)
	req = testutil.WithUser(req, testutil.ApprovedUser())
	req = testutil.WithChiURLParam(req, "reviewID", rv.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleDeleteReview(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("a non-owner must not delete someone else's review")
	}

	if _, err := reviewstore.New(db).GetByID(ctx, rv.ID); err != nil {
		t.Errorf("review should still exist after a denied delete: %v", err)
	}
}

func TestHandleDeleteReview_UnknownReview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)

	req := httptest.NewRequest("POST", "/reviews/bogus/delete", nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "reviewID", "bogus")
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleDeleteReview(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("deleting an unknown review must not redirect as success")
	}
}

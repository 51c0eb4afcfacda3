// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/authz"
	"github.com/merrittsmen/clubhub/internal/domain/models"
)

// BaseVM contains the fields every page template needs. Embed it in
// feature view models:
//
//	type listVM struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	IsApproved bool
	IsAdmin    bool
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string
}

// NewBaseVM builds a fully populated BaseVM for a page.
//
//   - title: the page title
//   - backDefault: fallback URL for the back button if the request
//     carries none
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	u, signedIn := auth.CurrentUser(r)

	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		IsLoggedIn:  signedIn,
		IsApproved:  authz.IsApproved(u),
		IsAdmin:     authz.IsAdmin(u),
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if signedIn {
		vm.UserName = u.Name
	}
	return vm
}

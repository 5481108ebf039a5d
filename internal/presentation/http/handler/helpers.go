package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/invoice-console/internal/application/service"
	"github.com/sangkips/invoice-console/internal/infrastructure/backend"
	"github.com/sangkips/invoice-console/internal/presentation/http/middleware"
	"github.com/sangkips/invoice-console/internal/presentation/http/view"
	"github.com/sirupsen/logrus"
)

// Console carries what every page handler shares: the session workspace
// for flash messages and the logger.
type Console struct {
	workspace *service.WorkspaceService
	logger    logrus.FieldLogger
}

// NewConsole creates the shared page helpers
func NewConsole(workspace *service.WorkspaceService, logger logrus.FieldLogger) *Console {
	return &Console{workspace: workspace, logger: logger}
}

// GetSessionID extracts the session ID from the Gin context
func GetSessionID(c *gin.Context) uuid.UUID {
	return middleware.GetSessionID(c)
}

func (k *Console) flash(c *gin.Context, kind, message string) {
	k.workspace.AddFlash(c.Request.Context(), GetSessionID(c), kind, message)
}

// flashError queues message followed by a description of err.
func (k *Console) flashError(c *gin.Context, message string, err error) {
	k.flash(c, service.FlashError, errorMessage(message, err))
}

func errorMessage(message string, err error) string {
	return message + ". " + backend.AsAppError(err).Message
}

// render pops the queued flashes and renders tmpl. extra flashes belong to
// this response only.
func (k *Console) render(c *gin.Context, status int, tmpl, title string, data any, extra ...view.Flash) {
	queued := k.workspace.PopFlashes(c.Request.Context(), GetSessionID(c))
	flashes := lo.Map(queued, func(f service.Flash, _ int) view.Flash {
		return view.Flash{Kind: f.Kind, Message: f.Message}
	})
	page := view.NewPage(title, c.Request.URL.Path, append(flashes, extra...), data)
	c.HTML(status, tmpl, page)
}

// seeOther finishes a form post by redirecting to a page.
func seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// Home redirects to the first console page.
func Home(c *gin.Context) {
	c.Redirect(http.StatusFound, view.HomePath)
}

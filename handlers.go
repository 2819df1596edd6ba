package blogster

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"

	"github.com/eringen/blogster/views"
)

const timeLayout = "2006-01-02 15:04"

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS)))))

	e.GET("/", a.handleDashboard)
	e.POST("/posts/", a.handleCreate)
	e.POST("/posts/:id/", a.handleSave)
	e.POST("/posts/:id/delete/", a.handleDelete)
	e.GET("/posts/:id/preview/", a.handlePreview)
	e.POST("/posts/:id/publish/", a.handlePublish)
	e.POST("/posts/:id/images/", a.handleImageUpload)
	e.GET("/posts/:id/export/", a.handleExport)
	e.POST("/import/", a.handleImport)
	e.GET("/history/", a.handleHistory)

	e.GET("/settings/", a.handleSettings)
	e.POST("/settings/relays/", a.handleRelayToggles)
	e.POST("/settings/relays/add/", a.handleRelayAdd)
	e.POST("/settings/relays/remove/", a.handleRelayRemove)
	e.POST("/settings/blossom/", a.handleBlossom)
	e.POST("/settings/keys/generate/", a.handleKeysGenerate)
	e.POST("/settings/keys/import/", a.handleKeysImport)
	e.POST("/settings/keys/delete/", a.handleKeysDelete)
	e.POST("/settings/profile/", a.handleProfile)
}

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// redirectWith queues a flash message and redirects to location.
func redirectWith(c echo.Context, location, kind, msg string) error {
	addFlash(c, kind, msg)
	return c.Redirect(http.StatusSeeOther, location)
}

func postURL(id string) string {
	return "/?id=" + url.QueryEscape(id)
}

func (a *App) handleDashboard(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	groups, err := a.Cache.Groups(query)
	if err != nil {
		return err
	}
	id := c.QueryParam("id")

	var ed *views.Editor
	if id != "" {
		p, err := a.Store.GetPost(id)
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound())
		}
		if err != nil {
			return err
		}
		v := a.editorView(p)
		ed = &v
	}
	sb := views.Sidebar{
		Query:     query,
		Drafts:    postItems(groups.Drafts, id),
		Published: postItems(groups.Published, id),
		Failed:    postItems(groups.Failed, id),
	}
	title := "Posts"
	if ed != nil && ed.Title != "" {
		title = ed.Title
	}
	return Render(c, views.Dashboard(a.page(c, title), sb, ed))
}

func postItems(posts []Post, activeID string) []views.PostItem {
	items := make([]views.PostItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, views.PostItem{
			ID:      p.ID,
			Title:   p.Title,
			Updated: p.UpdatedAt.Local().Format(timeLayout),
			Active:  p.ID == activeID,
		})
	}
	return items
}

func (a *App) editorView(p Post) views.Editor {
	ed := views.Editor{
		ID:          p.ID,
		Title:       p.Title,
		Summary:     p.Summary,
		Tags:        JoinTags(p.Tags),
		Image:       p.Image,
		Content:     p.Content,
		Status:      string(p.Status),
		EventID:     p.EventID,
		Relays:      p.PublishedRelays,
		FilePath:    p.FilePath,
		Updated:     p.UpdatedAt.Local().Format(timeLayout),
		Words:       p.WordCount(),
		ReadingTime: p.ReadingTime(),
		CanPublish:  p.ReadyToPublish(),
	}
	if p.EventID != "" {
		if addr, err := a.PostAddress(p); err == nil {
			ed.Naddr = addr
		}
	}
	return ed
}

func (a *App) handleCreate(c echo.Context) error {
	p, err := a.CreatePost(c.FormValue("title"))
	if err != nil {
		return err
	}
	return redirectWith(c, postURL(p.ID), flashInfo, "Created a new draft.")
}

func (a *App) handleSave(c echo.Context) error {
	id := c.Param("id")
	title := c.FormValue("title")
	summary := c.FormValue("summary")
	content := strings.ReplaceAll(c.FormValue("content"), "\r\n", "\n")
	image := c.FormValue("image")
	_, err := a.UpdatePost(id, PostEdit{
		Title:   &title,
		Summary: &summary,
		Content: &content,
		Image:   &image,
		Tags:    ParseTags(c.FormValue("tags")),
		SetTags: true,
	})
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, views.NotFound())
	}
	if err != nil {
		return redirectWith(c, postURL(id), flashError, "Could not save: "+err.Error())
	}
	return redirectWith(c, postURL(id), flashInfo, "Saved.")
}

func (a *App) handleDelete(c echo.Context) error {
	if err := a.DeletePost(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound())
		}
		return redirectWith(c, postURL(c.Param("id")), flashError, "Could not delete: "+err.Error())
	}
	return redirectWith(c, "/", flashInfo, "Post deleted.")
}

func (a *App) handlePreview(c echo.Context) error {
	p, err := a.Store.GetPost(c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, views.NotFound())
	}
	if err != nil {
		return err
	}
	return Render(c, views.Preview(a.page(c, p.Title), a.editorView(p)))
}

func (a *App) handlePublish(c echo.Context) error {
	id := c.Param("id")
	out, err := a.PublishPost(c.Request().Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		return RenderStatus(c, http.StatusNotFound, views.NotFound())
	case errors.Is(err, ErrNoCredentials):
		return redirectWith(c, "/settings/", flashError, "Add or generate Nostr keys before publishing.")
	case err != nil:
		return redirectWith(c, postURL(id), flashError, "Publish failed: "+err.Error())
	}
	msg := fmt.Sprintf("Published to %d of %d relays.", len(out.Accepted), len(out.Results))
	return redirectWith(c, postURL(id), flashInfo, msg)
}

func (a *App) handleImageUpload(c echo.Context) error {
	id := c.Param("id")
	file, err := c.FormFile("image")
	if err != nil {
		return redirectWith(c, postURL(id), flashError, "No image file provided.")
	}
	if file.Size > maxUploadSize {
		return redirectWith(c, postURL(id), flashError, "File too large (max 10MB).")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	featured := c.FormValue("featured") != ""
	u, _, err := a.UploadImage(c.Request().Context(), id, file.Filename, data, featured)
	switch {
	case errors.Is(err, ErrNotFound):
		return RenderStatus(c, http.StatusNotFound, views.NotFound())
	case errors.Is(err, ErrNoCredentials):
		return redirectWith(c, "/settings/", flashError, "Blossom uploads are signed with your Nostr key. Add one first.")
	case err != nil:
		return redirectWith(c, postURL(id), flashError, "Upload failed: "+err.Error())
	}
	return redirectWith(c, postURL(id), flashInfo, "Uploaded "+u.URL)
}

func (a *App) handleExport(c echo.Context) error {
	p, err := a.Store.GetPost(c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, views.NotFound())
	}
	if err != nil {
		return err
	}
	data, err := MarshalPost(p)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", p.Filename()))
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", data)
}

func (a *App) handleImport(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return redirectWith(c, "/", flashError, "No file provided.")
	}
	if file.Size > maxUploadSize {
		return redirectWith(c, "/", flashError, "File too large (max 10MB).")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	// file.Size is client-supplied; read one byte past the limit to catch overflow.
	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return err
	}
	if len(data) > maxUploadSize {
		return redirectWith(c, "/", flashError, "File too large (max 10MB).")
	}
	p, err := a.ImportData(data, file.Filename)
	if err != nil {
		return redirectWith(c, "/", flashError, "Import failed: "+err.Error())
	}
	return redirectWith(c, postURL(p.ID), flashInfo, "Imported "+file.Filename+".")
}

func (a *App) handleHistory(c echo.Context) error {
	postID := c.QueryParam("post")
	records, err := a.Library.ListPublishes(postID)
	if err != nil {
		return err
	}

	titles := map[string]string{}
	if posts, err := a.Cache.ListPosts(); err == nil {
		for _, p := range posts {
			titles[p.ID] = p.Title
		}
	}

	hist := views.History{PostID: postID, PostTitle: titles[postID]}
	for _, r := range records {
		title, ok := titles[r.PostID]
		if !ok {
			title = "(deleted)"
		}
		hist.Publishes = append(hist.Publishes, views.PublishRow{
			PostID:      r.PostID,
			PostTitle:   title,
			EventID:     r.EventID,
			Relay:       r.Relay,
			OK:          r.OK,
			Error:       r.Error,
			PublishedAt: r.PublishedAt,
		})
	}
	if postID == "" {
		uploads, err := a.Library.ListUploads()
		if err != nil {
			return err
		}
		for _, u := range uploads {
			hist.Uploads = append(hist.Uploads, views.UploadRow{
				URL:        u.URL,
				Name:       u.Name,
				Type:       u.Type,
				Size:       HumanSize(u.Size),
				Server:     u.Server,
				UploadedAt: u.UploadedAt,
			})
		}
	}
	return Render(c, views.HistoryPage(a.page(c, "History"), hist))
}

// HumanSize formats a byte count for display.
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Errorw("server error", "uri", c.Request().RequestURI, "err", err)
		_ = RenderStatus(c, code, views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

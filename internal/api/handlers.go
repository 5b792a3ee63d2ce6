package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/db/store"
	"github.com/samanvaya/samanvaya/pkg/errs"
	"github.com/samanvaya/samanvaya/pkg/lookup"
)

type Handlers struct {
	store  store.MetadataStore
	lookup *lookup.Service
}

func NewHandlers(s store.MetadataStore, lk *lookup.Service) *Handlers {
	return &Handlers{
		store:  s,
		lookup: lk,
	}
}

func (h *Handlers) Health(c *gin.Context) {
	if err := h.store.Health(c.Request.Context()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) ListCategories(c *gin.Context) {
	summaries, err := h.lookup.ListVisibleCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *Handlers) ListLanguages(c *gin.Context) {
	languages, err := h.lookup.ListLanguages(c.Request.Context(), GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, languages)
}

func (h *Handlers) ListCategoryTags(c *gin.Context) {
	tags, err := h.lookup.ListCategoryTags(c.Request.Context(), GetIdentity(c), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *Handlers) GetCategoryTagsWithData(c *gin.Context) {
	view, err := h.lookup.GetCategoryTagsWithData(c.Request.Context(), GetIdentity(c), c.Param("category"), c.Param("ids"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handlers) SubmitComment(c *gin.Context) {
	var comment models.Comment
	if !bind(c, &comment) {
		return
	}

	if err := h.store.SubmitComment(c.Request.Context(), GetIdentity(c), &comment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handlers) ListComments(c *gin.Context) {
	comments, err := h.store.ListComments(c.Request.Context(), GetIdentity(c), store.CommentFilter{
		Tablename: c.Query("tablename"),
		Action:    models.CommentAction(c.Query("action")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// ChangeLog lists entries as JSON, or exports the whole log when a format
// query parameter is given.
func (h *Handlers) ChangeLog(c *gin.Context) {
	ctx := c.Request.Context()

	if raw, ok := c.GetQuery("format"); ok {
		format, err := store.ParseExportFormat(raw)
		if err != nil {
			respondError(c, err)
			return
		}

		var buf bytes.Buffer
		if err := h.store.ExportChangeLog(ctx, GetIdentity(c), format, &buf); err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=change_log."+string(format))
		c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
		return
	}

	filter := store.ChangeLogFilter{
		Tablename: c.Query("tablename"),
		Action:    models.ChangeAction(c.Query("action")),
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := parseID(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.UserID = &userID
	}

	entries, err := h.store.ListChangeLog(ctx, GetIdentity(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// bind decodes the JSON body into dest and answers 400 when it is malformed.
func bind(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		respondError(c, errs.Invalid("body", "%v", err))
		return false
	}
	return true
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Invalid("id", "'%s' is not a valid id", raw)
	}
	return uint(id), nil
}

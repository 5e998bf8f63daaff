package api

import (
	"errors"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charleshuang3/teamcrm/internal/filestore"
	"github.com/charleshuang3/teamcrm/internal/models"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

const defaultContentType = "application/octet-stream"

func objectKey(fileID string) string {
	return path.Join("files", fileID)
}

// handleGetFiles returns one file with ?id, or every file of ?userId.
func (a *API) handleGetFiles(c *gin.Context) {
	db := a.db.Ctx(c.Request.Context())

	if id := c.Query("id"); id != "" {
		f, err := storage.GetFileByID(db, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responseError(c, http.StatusNotFound, "File not found")
				return
			}
			responseDBError(c, err, "Error fetching files from database")
			return
		}
		c.JSON(http.StatusOK, f)
		return
	}

	userID := c.Query("userId")
	if userID == "" {
		responseError(c, http.StatusBadRequest, "Missing id or userId parameter")
		return
	}

	files, err := storage.ListFilesOfUser(db, userID)
	if err != nil {
		responseDBError(c, err, "Error fetching files from database")
		return
	}
	if len(files) == 0 {
		responseError(c, http.StatusNotFound, "No files found")
		return
	}
	c.JSON(http.StatusOK, files)
}

// handleUploadFile stores a multipart "file" for "userId". "title" defaults
// to the uploaded file name.
func (a *API) handleUploadFile(c *gin.Context) {
	userID := c.PostForm("userId")
	header, err := c.FormFile("file")
	if err != nil || userID == "" {
		responseError(c, http.StatusBadRequest, "file and userId are required")
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = header.Filename
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	r, err := header.Open()
	if err != nil {
		responseError(c, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	defer r.Close()

	f := &models.File{
		ID:          storage.NewID(),
		Title:       title,
		ContentType: contentType,
		Size:        header.Size,
		UserID:      userID,
		TeamID:      c.PostForm("teamId"),
	}
	f.ObjectKey = objectKey(f.ID)

	ctx := c.Request.Context()
	if err := a.files.Put(ctx, f.ObjectKey, r, f.Size, f.ContentType); err != nil {
		logger.Error().Err(err).Str("key", f.ObjectKey).Msg("Failed to store file content")
		responseError(c, http.StatusInternalServerError, "Error saving file")
		return
	}

	if err := storage.CreateFile(a.db.Ctx(ctx), f); err != nil {
		if delErr := a.files.Delete(ctx, f.ObjectKey); delErr != nil {
			logger.Warn().Err(delErr).Str("key", f.ObjectKey).Msg("Failed to remove orphan file content")
		}
		responseDBError(c, err, "Error saving file")
		return
	}

	c.JSON(http.StatusCreated, f)
}

func (a *API) handleDeleteFile(c *gin.Context) {
	v, ok := requireQuery(c, "Missing file ID", "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	db := a.db.Ctx(ctx)

	f, err := storage.GetFileByID(db, v[0])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responseError(c, http.StatusNotFound, "File not found")
			return
		}
		responseDBError(c, err, "Error deleting file")
		return
	}

	if err := storage.DeleteFile(db, f.ID); err != nil {
		responseDBError(c, err, "Error deleting file")
		return
	}

	// the record is gone, a leftover blob is only logged.
	if err := a.files.Delete(ctx, f.ObjectKey); err != nil {
		logger.Warn().Err(err).Str("key", f.ObjectKey).Msg("Failed to remove file content")
	}

	responseMessage(c, http.StatusOK, "File deleted successfully")
}

func (a *API) handleGetFileContent(c *gin.Context) {
	v, ok := requireQuery(c, "Missing file ID", "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	f, err := storage.GetFileByID(a.db.Ctx(ctx), v[0])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responseError(c, http.StatusNotFound, "File not found")
			return
		}
		responseDBError(c, err, "Error fetching files from database")
		return
	}

	r, err := a.files.Get(ctx, f.ObjectKey)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			responseError(c, http.StatusNotFound, "File content not found")
			return
		}
		logger.Error().Err(err).Str("key", f.ObjectKey).Msg("Failed to read file content")
		responseError(c, http.StatusInternalServerError, "Error reading file")
		return
	}
	defer r.Close()

	c.DataFromReader(http.StatusOK, f.Size, f.ContentType, r, map[string]string{
		"Content-Disposition": `inline; filename="` + path.Base(f.Title) + `"`,
	})
}

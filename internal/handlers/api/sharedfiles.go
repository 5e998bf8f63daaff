package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charleshuang3/teamcrm/internal/models"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

type sharedFileView struct {
	models.SharedFile
	File *models.File `json:"file"`
}

func newSharedFileView(sf *models.SharedFile) *sharedFileView {
	v := &sharedFileView{SharedFile: *sf}
	if sf.File.ID != "" {
		f := sf.File
		v.File = &f
	}
	return v
}

// handleGetSharedFiles filters by any of id, userId, fileId and clientId.
// A lookup by id answers a single object.
func (a *API) handleGetSharedFiles(c *gin.Context) {
	filter := &storage.SharedFileFilter{
		ID:       c.Query("id"),
		UserID:   c.Query("userId"),
		FileID:   c.Query("fileId"),
		ClientID: c.Query("clientId"),
	}
	if filter.Empty() {
		responseError(c, http.StatusBadRequest, "Missing id, userId, fileId, or clientId parameter")
		return
	}

	shared, err := storage.ListSharedFiles(a.db.Ctx(c.Request.Context()), filter)
	if err != nil {
		responseDBError(c, err, "Error fetching shared file(s) from database")
		return
	}
	if len(shared) == 0 {
		responseError(c, http.StatusNotFound, "No shared files found")
		return
	}

	if filter.ID != "" {
		c.JSON(http.StatusOK, newSharedFileView(&shared[0]))
		return
	}

	res := make([]*sharedFileView, 0, len(shared))
	for i := range shared {
		res = append(res, newSharedFileView(&shared[i]))
	}
	c.JSON(http.StatusOK, res)
}

type shareFileParams struct {
	FileID   string `json:"file_id" binding:"required"`
	UserID   string `json:"user_id" binding:"required"`
	ClientID string `json:"client_id" binding:"required"`
}

func (a *API) handleShareFile(c *gin.Context) {
	params := &shareFileParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		responseError(c, http.StatusBadRequest, "file_id, user_id, and client_id are required")
		return
	}

	db := a.db.Ctx(c.Request.Context())

	f, err := storage.GetFileByID(db, params.FileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responseError(c, http.StatusNotFound, "File not found")
			return
		}
		responseDBError(c, err, "Error sharing file")
		return
	}

	sf := &models.SharedFile{
		ID:         storage.NewID(),
		FileID:     f.ID,
		UserID:     params.UserID,
		ClientID:   params.ClientID,
		Status:     models.SharedFileShared,
		SharedTime: a.now(),
	}
	if err := storage.CreateSharedFile(db, sf); err != nil {
		responseDBError(c, err, "Error sharing file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"sharedFile": sf,
		"file":       f,
	})
}

type updateSharedFileParams struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

func (a *API) handleUpdateSharedFile(c *gin.Context) {
	params := &updateSharedFileParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		responseError(c, http.StatusBadRequest, "id and status are required")
		return
	}

	db := a.db.Ctx(c.Request.Context())

	sf, err := storage.GetSharedFileByID(db, params.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responseError(c, http.StatusNotFound, "Shared file not found")
			return
		}
		responseDBError(c, err, "Error updating shared file")
		return
	}

	if err := storage.UpdateSharedFileStatus(db, sf, params.Status); err != nil {
		responseDBError(c, err, "Error updating shared file")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Shared file updated successfully",
		"sharedFile": newSharedFileView(sf),
	})
}

func (a *API) handleDeleteSharedFile(c *gin.Context) {
	v, ok := requireQuery(c, "Missing shared file ID", "id")
	if !ok {
		return
	}

	n, err := storage.DeleteSharedFile(a.db.Ctx(c.Request.Context()), v[0])
	if err != nil {
		responseDBError(c, err, "Error deleting shared file")
		return
	}
	if n == 0 {
		responseError(c, http.StatusNotFound, "Shared file not found")
		return
	}

	responseMessage(c, http.StatusOK, "Shared file deleted successfully")
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/mesa-backend/storage"
	"github.com/yeremiapane/mesa-backend/utils"
)

type FileController struct {
	Storage       *storage.S3Helper
	MaxUploadSize int64
}

func NewFileController(helper *storage.S3Helper, maxUploadSize int64) *FileController {
	return &FileController{Storage: helper, MaxUploadSize: maxUploadSize}
}

// UploadFile -> simpan file dengan nama unik, form field "file" dan "sub" (opsional)
func (fc *FileController) UploadFile(c *gin.Context) {
	if fc.MaxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, fc.MaxUploadSize)
	}

	file, err := c.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := fc.Storage.Post(c.Request.Context(), file, c.PostForm("sub"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	if result == nil {
		utils.RespondJSON(c, http.StatusOK, "No file uploaded", nil)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "File uploaded", result)
}

// GetFile -> URL baca bertanda tangan, expiry dalam detik
func (fc *FileController) GetFile(c *gin.Context) {
	var expiry time.Duration
	if raw := c.Query("expiry"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid expiry"))
			return
		}
		expiry = time.Duration(seconds) * time.Second
	}

	descriptor, err := fc.Storage.Get(c.Request.Context(), c.Param("key"), c.Query("sub"), expiry)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "File URL", descriptor)
}

// DeleteFile -> hapus object, key boleh mengandung "/"
func (fc *FileController) DeleteFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	result, err := fc.Storage.Del(c.Request.Context(), key)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	if result == nil {
		utils.RespondJSON(c, http.StatusOK, "Nothing to delete", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "File deleted", gin.H{"key": key})
}

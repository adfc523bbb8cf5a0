package handlers

import (
	"net/http"
	"time"

	"github.com/greenbridge-eco/greenbridge/internal/media"
)

// UploadItemImageHandler godoc
// @Summary Upload a photo for a collection item
// @Tags media
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} UploadResult
// @Failure 400 {string} string "Invalid upload"
// @Failure 503 {string} string "Media storage not configured"
// @Router /api/v1/media [post]
func UploadItemImageHandler(w http.ResponseWriter, r *http.Request) {
	if mediaStore == nil {
		http.Error(w, "media storage is not available", http.StatusServiceUnavailable)
		return
	}

	maxBytes := int64(limits.MaxUploadSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		http.Error(w, "upload too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		http.Error(w, "only jpeg, png and webp images are accepted", http.StatusBadRequest)
		return
	}

	key := media.NewKey("items", header.Filename)
	if err := mediaStore.Upload(r.Context(), key, contentType, file); err != nil {
		http.Error(w, "could not store file", http.StatusInternalServerError)
		return
	}

	url, err := mediaStore.PresignGet(r.Context(), key, 24*time.Hour)
	if err != nil {
		// Upload succeeded; the key alone is still useful.
		writeJSONOrLog(w, http.StatusCreated, UploadResult{Key: key})
		return
	}
	writeJSONOrLog(w, http.StatusCreated, UploadResult{Key: key, URL: url})
}

// GetMediaURLHandler godoc
// @Summary Presigned download URL for a stored object
// @Tags media
// @Security BearerAuth
// @Produce json
// @Param key query string true "Object key"
// @Success 200 {object} UploadResult
// @Failure 400 {string} string "Missing key"
// @Router /api/v1/media [get]
func GetMediaURLHandler(w http.ResponseWriter, r *http.Request) {
	if mediaStore == nil {
		http.Error(w, "media storage is not available", http.StatusServiceUnavailable)
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	url, err := mediaStore.PresignGet(r.Context(), key, time.Hour)
	if err != nil {
		http.Error(w, "could not presign object", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, UploadResult{Key: key, URL: url})
}

package api

import (
	"net/http" // HTTP status codes

	"game_store/internal/storage" // Uploaded images

	"github.com/gin-gonic/gin" // Gin web framework
)

// ServeImageHandler streams a stored image with its sniffed content type.
func ServeImageHandler(images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, err := images.Open(c.Param("filename"))
		if err != nil {
			respondError(c, err, "serve image")
			return
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, img.ContentType, img.Data)
	}
}

// UploadImageHandler stores the multipart "file" field and returns its URL.
func UploadImageHandler(images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		url, err := saveUpload(c, images, "file")
		if err != nil {
			respondError(c, err, "upload image")
			return
		}
		if url == nil {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, "กรุณาเลือกไฟล์รูปภาพ")
			return
		}
		respondCreated(c, "อัปโหลดรูปภาพสำเร็จ", gin.H{"imageUrl": *url})
	}
}

// DeleteImageHandler removes a stored image (admin only)
func DeleteImageHandler(images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := images.Delete(c.Param("filename")); err != nil {
			respondError(c, err, "delete image")
			return
		}
		respondOK(c, "ลบรูปภาพสำเร็จ", nil)
	}
}

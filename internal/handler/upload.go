package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/service"
	"github.com/user/cinelog/internal/utils"
)

// UploadImage 上传电影海报，返回可直接写入 image_url 的公开地址
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "缺少上传文件")
		return
	}

	url, err := h.Upload.UploadImage(c.Request.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadNotConfigured):
			utils.InternalServerError(c, "未配置 AWS S3，无法上传图片")
		case errors.Is(err, service.ErrInvalidFileType):
			utils.BadRequest(c, "只支持 JPEG、PNG、WebP 格式的图片")
		case errors.Is(err, service.ErrFileTooLarge):
			utils.BadRequest(c, "图片大小不能超过 5MB")
		default:
			utils.InternalServerError(c, "上传失败，请重试")
		}
		return
	}

	utils.Success(c, gin.H{"url": url})
}

package handler

import (
	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Repos  *repository.Repositories
	Config *config.Config
	Movies *service.MovieService
	Upload *service.UploadService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	// 创建电影服务
	movies := service.NewMovieService(repos.Movie, cfg.Location)

	// 创建上传服务
	upload := service.NewUploadService(cfg)

	return &Handler{
		Repos:  repos,
		Config: cfg,
		Movies: movies,
		Upload: upload,
	}
}

package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/service"
	"github.com/user/cinelog/internal/utils"
)

// listMoviesQuery 列表查询参数
type listMoviesQuery struct {
	Search          string `form:"search"`
	Genre           string `form:"genre"`
	MinDuration     *int   `form:"min_duration" binding:"omitempty,gte=0"`
	MaxDuration     *int   `form:"max_duration" binding:"omitempty,gte=0"`
	ReleaseDateFrom string `form:"release_date_from" binding:"omitempty,datetime=2006-01-02"`
	ReleaseDateTo   string `form:"release_date_to" binding:"omitempty,datetime=2006-01-02"`
	Page            int    `form:"page" binding:"omitempty,gte=1"`
	Limit           int    `form:"limit" binding:"omitempty,gte=1"`
}

// CreateMovie 创建电影
func (h *Handler) CreateMovie(c *gin.Context) {
	var input service.CreateMovieInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, "参数校验失败: "+err.Error())
		return
	}

	movie, err := h.Movies.Create(&input, middleware.GetUserID(c))
	if err != nil {
		utils.InternalServerError(c, "创建电影失败")
		return
	}

	utils.Created(c, movie)
}

// ListMovies 按条件分页查询电影
func (h *Handler) ListMovies(c *gin.Context) {
	var q listMoviesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "参数校验失败: "+err.Error())
		return
	}

	filter := &model.MovieFilter{
		Search:      q.Search,
		Genre:       q.Genre,
		MinDuration: q.MinDuration,
		MaxDuration: q.MaxDuration,
		Page:        q.Page,
		Limit:       q.Limit,
	}
	// 日期上下限按本地时区零点解析，与入库口径一致
	if q.ReleaseDateFrom != "" {
		t, _ := time.ParseInLocation("2006-01-02", q.ReleaseDateFrom, h.Config.Location)
		filter.ReleaseFrom = &t
	}
	if q.ReleaseDateTo != "" {
		t, _ := time.ParseInLocation("2006-01-02", q.ReleaseDateTo, h.Config.Location)
		filter.ReleaseTo = &t
	}

	page, err := h.Movies.FindAll(filter)
	if err != nil {
		utils.InternalServerError(c, "查询电影列表失败")
		return
	}

	utils.Success(c, page)
}

// GetMovie 电影详情
func (h *Handler) GetMovie(c *gin.Context) {
	movie, err := h.Movies.FindOne(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			utils.NotFound(c, "电影不存在")
			return
		}
		utils.InternalServerError(c, "")
		return
	}

	utils.Success(c, movie)
}

// UpdateMovie 更新电影（只有创建者可以改）
func (h *Handler) UpdateMovie(c *gin.Context) {
	var patch service.UpdateMovieInput
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.BadRequest(c, "参数校验失败: "+err.Error())
		return
	}

	movie, err := h.Movies.Update(c.Param("id"), &patch, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMovieNotFound):
			utils.NotFound(c, "电影不存在")
		case errors.Is(err, service.ErrNotOwner):
			utils.Forbidden(c, "只能修改自己创建的电影")
		default:
			utils.InternalServerError(c, "更新电影失败")
		}
		return
	}

	utils.Success(c, movie)
}

// DeleteMovie 删除电影（只有创建者可以删）
func (h *Handler) DeleteMovie(c *gin.Context) {
	err := h.Movies.Remove(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMovieNotFound):
			utils.NotFound(c, "电影不存在")
		case errors.Is(err, service.ErrNotOwner):
			utils.Forbidden(c, "只能删除自己创建的电影")
		default:
			utils.InternalServerError(c, "删除电影失败")
		}
		return
	}

	utils.SuccessWithMessage(c, "电影删除成功", nil)
}

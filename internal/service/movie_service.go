package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrMovieNotFound 电影不存在
	ErrMovieNotFound = errors.New("movie not found")
	// ErrNotOwner 当前用户不是电影创建者，禁止修改/删除
	ErrNotOwner = errors.New("not the movie owner")
)

// releaseDateLayout 上映日期的入参格式
const releaseDateLayout = "2006-01-02"

// MovieStore 电影存储接口，由 repository.MovieRepository 实现
type MovieStore interface {
	Create(movie *model.Movie) error
	FindByID(id string) (*model.Movie, error)
	FindPage(f *model.MovieFilter) ([]*model.Movie, int64, error)
	Updates(id string, fields map[string]interface{}) error
	Delete(id string) error
}

// CreateMovieInput 创建电影入参
type CreateMovieInput struct {
	Title         string   `json:"title" binding:"required,notblank"`
	OriginalTitle string   `json:"original_title"`
	ReleaseDate   string   `json:"release_date" binding:"required,datetime=2006-01-02"`
	Description   string   `json:"description" binding:"required,notblank"`
	Budget        *float64 `json:"budget" binding:"omitempty,gte=0"`
	Duration      int      `json:"duration" binding:"required,gte=1"`
	Genre         string   `json:"genre" binding:"required,notblank"`
	ImageURL      string   `json:"image_url"`
}

// UpdateMovieInput 更新电影入参，nil 字段表示不修改
type UpdateMovieInput struct {
	Title         *string  `json:"title" binding:"omitempty,notblank"`
	OriginalTitle *string  `json:"original_title"`
	ReleaseDate   *string  `json:"release_date" binding:"omitempty,datetime=2006-01-02"`
	Description   *string  `json:"description" binding:"omitempty,notblank"`
	Budget        *float64 `json:"budget" binding:"omitempty,gte=0"`
	Duration      *int     `json:"duration" binding:"omitempty,gte=1"`
	Genre         *string  `json:"genre" binding:"omitempty,notblank"`
	ImageURL      *string  `json:"image_url"`
}

// MovieService 电影服务：列表查询 + 增删改
type MovieService struct {
	movies MovieStore
	loc    *time.Location
	pages  *utils.PageCache[*model.MoviePage]
	sf     singleflight.Group
}

// NewMovieService 创建电影服务
func NewMovieService(movies MovieStore, loc *time.Location) *MovieService {
	return &MovieService{
		movies: movies,
		loc:    loc,
		// 列表缓存只保留很短时间，写操作之后整体清空
		pages: utils.NewPageCache[*model.MoviePage](256, 30*time.Second),
	}
}

// FindAll 按条件分页查询电影列表
func (s *MovieService) FindAll(f *model.MovieFilter) (*model.MoviePage, error) {
	f.Normalize()

	key := f.CacheKey()
	if page, ok := s.pages.Get(key); ok {
		return page, nil
	}

	movies, total, err := s.movies.FindPage(f)
	if err != nil {
		return nil, fmt.Errorf("查询电影列表失败: %w", err)
	}
	if movies == nil {
		movies = []*model.Movie{}
	}

	page := &model.MoviePage{
		Data: movies,
		Meta: model.NewPageMeta(total, f.Page, f.Limit),
	}
	s.pages.Set(key, page)

	return page, nil
}

// Create 创建电影，创建者即 userID，上映日期按本地时区零点入库
func (s *MovieService) Create(input *CreateMovieInput, userID string) (*model.Movie, error) {
	releaseDate, err := s.parseReleaseDate(input.ReleaseDate)
	if err != nil {
		return nil, err
	}

	movie := &model.Movie{
		Title:         input.Title,
		OriginalTitle: input.OriginalTitle,
		ReleaseDate:   releaseDate,
		Description:   input.Description,
		Budget:        input.Budget,
		Duration:      input.Duration,
		Genre:         input.Genre,
		ImageURL:      input.ImageURL,
		UserID:        userID,
	}
	if err := s.movies.Create(movie); err != nil {
		return nil, fmt.Errorf("创建电影失败: %w", err)
	}

	s.pages.Clear()

	// 重新读取，带上创建者精简视图
	return s.FindOne(movie.ID)
}

// FindOne 根据 ID 获取电影详情（带创建者精简视图）
// 详情是热点读，先走缓存，singleflight 合并同一 ID 的并发回源
func (s *MovieService) FindOne(id string) (*model.Movie, error) {
	cacheKey := "movie:" + id
	if cached, ok := utils.CacheGet(cacheKey); ok {
		return cached.(*model.Movie), nil
	}

	val, err, _ := s.sf.Do(id, func() (interface{}, error) {
		movie, err := s.movies.FindByID(id)
		if err != nil {
			return nil, fmt.Errorf("查询电影失败: %w", err)
		}
		if movie == nil {
			return nil, ErrMovieNotFound
		}
		utils.CacheSet(cacheKey, movie, 5*time.Minute)
		return movie, nil
	})
	if err != nil {
		return nil, err
	}

	return val.(*model.Movie), nil
}

// Update 更新电影
// 先查存在性（不存在报 ErrMovieNotFound），再校验创建者（不是本人报 ErrNotOwner），
// 最后只更新 patch 里出现的字段；存在性检查和写入之间没有事务包裹，
// 并发删除同一部电影时以最后的写入为准
func (s *MovieService) Update(id string, patch *UpdateMovieInput, userID string) (*model.Movie, error) {
	movie, err := s.FindOne(id)
	if err != nil {
		return nil, err
	}
	if movie.UserID != userID {
		return nil, ErrNotOwner
	}

	fields := map[string]interface{}{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.OriginalTitle != nil {
		fields["original_title"] = *patch.OriginalTitle
	}
	if patch.ReleaseDate != nil {
		releaseDate, err := s.parseReleaseDate(*patch.ReleaseDate)
		if err != nil {
			return nil, err
		}
		fields["release_date"] = releaseDate
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Budget != nil {
		fields["budget"] = *patch.Budget
	}
	if patch.Duration != nil {
		fields["duration"] = *patch.Duration
	}
	if patch.Genre != nil {
		fields["genre"] = *patch.Genre
	}
	if patch.ImageURL != nil {
		fields["image_url"] = *patch.ImageURL
	}

	if len(fields) > 0 {
		if err := s.movies.Updates(id, fields); err != nil {
			return nil, fmt.Errorf("更新电影失败: %w", err)
		}
	}

	utils.CacheDelete("movie:" + id)
	s.pages.Clear()

	return s.FindOne(id)
}

// Remove 删除电影，权限规则与 Update 相同，硬删除不可恢复
func (s *MovieService) Remove(id, userID string) error {
	movie, err := s.FindOne(id)
	if err != nil {
		return err
	}
	if movie.UserID != userID {
		return ErrNotOwner
	}

	if err := s.movies.Delete(id); err != nil {
		return fmt.Errorf("删除电影失败: %w", err)
	}

	utils.CacheDelete("movie:" + id)
	s.pages.Clear()

	return nil
}

// parseReleaseDate 把 "2006-01-02" 解析成本地时区当天零点
func (s *MovieService) parseReleaseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(releaseDateLayout, value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("上映日期格式错误: %w", err)
	}
	return t, nil
}

package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create 创建电影，ID 和创建时间在这里赋值
func (r *MovieRepository) Create(movie *model.Movie) error {
	if movie.ID == "" {
		movie.ID = uuid.NewString()
	}
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = time.Now()
	}
	return r.db.Create(movie).Error
}

// FindByID 根据 ID 查找电影，带创建者精简视图；不存在返回 nil, nil
func (r *MovieRepository) FindByID(id string) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Preload("User").Where("id = ?", id).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// FindPage 按条件分页查询电影
// 总数和当前页使用同一组条件统计，保证 meta.total 与翻页结果一致；
// 排序固定为创建时间倒序（最新创建的排最前）
func (r *MovieRepository) FindPage(f *model.MovieFilter) ([]*model.Movie, int64, error) {
	var total int64
	if err := r.filtered(f).Model(&model.Movie{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movies []*model.Movie
	err := r.filtered(f).
		Preload("User").
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset()).
		Find(&movies).Error
	if err != nil {
		return nil, 0, err
	}

	return movies, total, nil
}

// filtered 把查询条件逐项拼到 WHERE 上，缺省条件不产生约束
// 语义与 model.MovieFilter.Matches 保持一致
func (r *MovieRepository) filtered(f *model.MovieFilter) *gorm.DB {
	q := r.db.Session(&gorm.Session{})

	if f.Search != "" {
		q = q.Where("title ILIKE ?", "%"+f.Search+"%")
	}
	if f.Genre != "" {
		q = q.Where("LOWER(genre) = LOWER(?)", f.Genre)
	}
	if f.MinDuration != nil {
		q = q.Where("duration >= ?", *f.MinDuration)
	}
	if f.MaxDuration != nil {
		q = q.Where("duration <= ?", *f.MaxDuration)
	}
	if f.ReleaseFrom != nil {
		q = q.Where("release_date >= ?", *f.ReleaseFrom)
	}
	if f.ReleaseTo != nil {
		q = q.Where("release_date <= ?", *f.ReleaseTo)
	}

	return q
}

// Updates 部分更新电影字段，fields 里没有的字段保持原值
func (r *MovieRepository) Updates(id string, fields map[string]interface{}) error {
	return r.db.Model(&model.Movie{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除电影（硬删除，立即生效）
func (r *MovieRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Movie{}).Error
}

// FindReleasedBetween 查询上映日期落在 [start, end) 窗口内的电影
// 上映提醒任务使用，每部电影带完整的创建者记录（需要邮箱和昵称）
func (r *MovieRepository) FindReleasedBetween(start, end time.Time) ([]*model.ReleasingMovie, error) {
	var movies []*model.Movie
	err := r.db.
		Where("release_date >= ? AND release_date < ?", start, end).
		Order("created_at DESC").
		Find(&movies).Error
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, nil
	}

	// 批量取创建者，避免每部电影一次查询
	ids := make([]string, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.UserID)
	}
	var owners []model.User
	if err := r.db.Where("id IN ?", ids).Find(&owners).Error; err != nil {
		return nil, err
	}
	ownerByID := make(map[string]model.User, len(owners))
	for _, u := range owners {
		ownerByID[u.ID] = u
	}

	result := make([]*model.ReleasingMovie, 0, len(movies))
	for _, m := range movies {
		result = append(result, &model.ReleasingMovie{
			Movie: *m,
			Owner: ownerByID[m.UserID],
		})
	}

	return result, nil
}

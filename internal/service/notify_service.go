package service

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/user/cinelog/internal/model"
)

// ReleaseSource 上映提醒任务的数据来源，由 repository.MovieRepository 实现
type ReleaseSource interface {
	FindReleasedBetween(start, end time.Time) ([]*model.ReleasingMovie, error)
}

// ReleaseNotifier 上映提醒的投递端，由 MailService 实现
type ReleaseNotifier interface {
	SendReleaseNotice(email, name, title string, releaseDate time.Time) *SendResult
}

// NotifyService 上映提醒任务
// 每天早上 8 点跑一次，把当天上映的电影逐部通知给创建者；
// 不记录已发送名单，同一天内重复触发会重复发送（接受至多一天一次的节奏约束）
type NotifyService struct {
	movies ReleaseSource
	mailer ReleaseNotifier
	loc    *time.Location
	cron   *cron.Cron
}

// NewNotifyService 创建上映提醒任务
func NewNotifyService(movies ReleaseSource, mailer ReleaseNotifier, loc *time.Location) *NotifyService {
	return &NotifyService{
		movies: movies,
		mailer: mailer,
		loc:    loc,
	}
}

// Start 启动定时任务（每天 08:00，按配置时区）
func (s *NotifyService) Start() {
	s.cron = cron.New(cron.WithLocation(s.loc))
	s.cron.AddFunc("0 8 * * *", func() {
		s.Run()
	})
	s.cron.Start()
	log.Println("[NotifyService] 上映提醒任务已启动（每天 08:00）")
}

// Stop 停止定时任务，正在执行的批次会跑完
func (s *NotifyService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Run 执行一次提醒批次，返回处理的电影数
// 选取窗口是本地“今天”[零点, 次日零点)；逐部顺序投递，
// 单部失败只记日志，不影响后续电影
func (s *NotifyService) Run() int {
	log.Println("[NotifyService] 开始检查今日上映的电影...")

	now := time.Now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1)

	releasing, err := s.movies.FindReleasedBetween(start, end)
	if err != nil {
		log.Printf("[NotifyService] 查询今日上映电影失败: %v", err)
		return 0
	}

	if len(releasing) == 0 {
		log.Println("[NotifyService] 今天没有上映的电影")
		return 0
	}

	for _, r := range releasing {
		result := s.mailer.SendReleaseNotice(r.Owner.Email, r.Owner.Name, r.Movie.Title, r.Movie.ReleaseDate)
		if result.Sent {
			log.Printf("[NotifyService] 已通知 %s: 《%s》今日上映", r.Owner.Email, r.Movie.Title)
		} else {
			log.Printf("[NotifyService] 通知未送达 %s: 《%s》(%s)", r.Owner.Email, r.Movie.Title, result.Reason)
		}
	}

	log.Printf("[NotifyService] 本次批次处理了 %d 部电影", len(releasing))
	return len(releasing)
}

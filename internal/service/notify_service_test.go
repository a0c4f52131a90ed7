package service

import (
	"testing"
	"time"

	"github.com/user/cinelog/internal/model"
)

// fakeReleaseSource 记录任务传入的查询窗口，并按窗口筛选预置电影
type fakeReleaseSource struct {
	movies    []*model.ReleasingMovie
	gotStart  time.Time
	gotEnd    time.Time
	callCount int
}

func (f *fakeReleaseSource) FindReleasedBetween(start, end time.Time) ([]*model.ReleasingMovie, error) {
	f.callCount++
	f.gotStart = start
	f.gotEnd = end

	var result []*model.ReleasingMovie
	for _, r := range f.movies {
		d := r.Movie.ReleaseDate
		if !d.Before(start) && d.Before(end) {
			result = append(result, r)
		}
	}
	return result, nil
}

// recordingNotifier 记录投递顺序，指定邮箱的投递会失败
type recordingNotifier struct {
	sentTo  []string
	failFor string
}

func (n *recordingNotifier) SendReleaseNotice(email, name, title string, releaseDate time.Time) *SendResult {
	n.sentTo = append(n.sentTo, email)
	if email == n.failFor {
		return &SendResult{Sent: false, Reason: "smtp connection refused"}
	}
	return &SendResult{Sent: true}
}

func releasing(id, title, ownerEmail string, releaseDate time.Time) *model.ReleasingMovie {
	return &model.ReleasingMovie{
		Movie: model.Movie{ID: id, Title: title, ReleaseDate: releaseDate, UserID: "owner-" + id},
		Owner: model.User{ID: "owner-" + id, Name: "Owner " + id, Email: ownerEmail},
	}
}

func TestNotifyRunSelectsTodayWindow(t *testing.T) {
	loc := time.UTC
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	source := &fakeReleaseSource{
		movies: []*model.ReleasingMovie{
			releasing("m1", "今天上映 A", "a@example.com", today),
			releasing("m2", "今天上映 B", "b@example.com", today),
			releasing("m3", "昨天已上映", "c@example.com", today.AddDate(0, 0, -1)),
			releasing("m4", "明天才上映", "d@example.com", today.AddDate(0, 0, 1)),
		},
	}
	notifier := &recordingNotifier{}

	svc := NewNotifyService(source, notifier, loc)
	processed := svc.Run()

	if processed != 2 {
		t.Fatalf("期望处理 2 部电影，实际 %d", processed)
	}

	// 窗口必须是本地今天的 [零点, 次日零点)
	if !source.gotStart.Equal(today) {
		t.Fatalf("窗口起点应为今天零点 %v，实际 %v", today, source.gotStart)
	}
	if !source.gotEnd.Equal(today.AddDate(0, 0, 1)) {
		t.Fatalf("窗口终点应为次日零点，实际 %v", source.gotEnd)
	}

	// 只通知今天上映的两部，按选取顺序
	if len(notifier.sentTo) != 2 || notifier.sentTo[0] != "a@example.com" || notifier.sentTo[1] != "b@example.com" {
		t.Fatalf("期望依次通知 a、b，实际 %v", notifier.sentTo)
	}
}

func TestNotifyRunFailureDoesNotAbortBatch(t *testing.T) {
	loc := time.UTC
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	source := &fakeReleaseSource{
		movies: []*model.ReleasingMovie{
			releasing("m1", "第一部", "first@example.com", today),
			releasing("m2", "第二部", "fails@example.com", today),
			releasing("m3", "第三部", "third@example.com", today),
		},
	}
	// 第二封投递失败，后面的仍然要发
	notifier := &recordingNotifier{failFor: "fails@example.com"}

	svc := NewNotifyService(source, notifier, loc)
	processed := svc.Run()

	if processed != 3 {
		t.Fatalf("单封失败不应中断批次，期望处理 3 部，实际 %d", processed)
	}
	if len(notifier.sentTo) != 3 || notifier.sentTo[2] != "third@example.com" {
		t.Fatalf("失败之后的电影也应继续投递，实际 %v", notifier.sentTo)
	}
}

func TestNotifyRunNoneReleasing(t *testing.T) {
	source := &fakeReleaseSource{}
	notifier := &recordingNotifier{}

	svc := NewNotifyService(source, notifier, time.UTC)
	processed := svc.Run()

	if processed != 0 {
		t.Fatalf("没有上映电影时应返回 0，实际 %d", processed)
	}
	if len(notifier.sentTo) != 0 {
		t.Fatalf("没有上映电影时不应发任何邮件，实际 %v", notifier.sentTo)
	}
	if source.callCount != 1 {
		t.Fatalf("应查询一次数据源，实际 %d", source.callCount)
	}
}

// 同一天重复执行会对同一批收件人重复投递（接受的 at-least-once 语义）
func TestNotifyRunIsAtLeastOnce(t *testing.T) {
	loc := time.UTC
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	source := &fakeReleaseSource{
		movies: []*model.ReleasingMovie{
			releasing("m1", "今天上映", "a@example.com", today),
		},
	}
	notifier := &recordingNotifier{}

	svc := NewNotifyService(source, notifier, loc)
	svc.Run()
	svc.Run()

	if len(notifier.sentTo) != 2 {
		t.Fatalf("重复执行应重复投递，实际 %v", notifier.sentTo)
	}
}

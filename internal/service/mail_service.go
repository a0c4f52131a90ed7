package service

import (
	"fmt"
	"log"
	"time"

	"github.com/user/cinelog/internal/config"
	"gopkg.in/gomail.v2"
)

// SendResult 单次邮件投递结果
// 邮件链路的失败不向上抛错误，调用方根据结果决定是否记录
type SendResult struct {
	Sent   bool   // 是否成功投递到 SMTP
	Reason string // 未投递时的原因
}

// MailService 邮件通知服务（通知网关）
// SMTP 凭据缺失时服务仍可创建，所有发送调用降级为 no-op
type MailService struct {
	dialer     *gomail.Dialer
	from       string
	configured bool
}

// NewMailService 创建邮件服务
func NewMailService(cfg *config.Config) *MailService {
	configured := cfg.SMTPUser != "" && cfg.SMTPPass != ""

	s := &MailService{
		from:       cfg.SMTPFrom,
		configured: configured,
	}

	if configured {
		s.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		log.Println("[MailService] 邮件服务已配置")
	} else {
		log.Println("[MailService] 未配置 SMTP 凭据，上映提醒邮件将被跳过")
	}

	return s
}

// Configured 邮件服务是否可用
func (s *MailService) Configured() bool {
	return s.configured
}

// SendReleaseNotice 发送电影上映提醒
// 永远不返回错误：未配置或投递失败都记录日志并反映在结果里
func (s *MailService) SendReleaseNotice(email, name, title string, releaseDate time.Time) *SendResult {
	if !s.configured {
		log.Printf("[MailService] 邮件未发送（SMTP 未配置）: 《%s》上映提醒 -> %s", title, email)
		return &SendResult{Sent: false, Reason: "smtp not configured"}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("上映提醒：《%s》今天上映！", title))
	m.SetBody("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>%s，你好！</h2>
			<p>你收藏登记的电影 <strong>《%s》</strong> 今天（%s）正式上映！</p>
			<p>别错过观影机会！</p>
			<br>
			<p>Cinelog 团队</p>
		</div>
	`, name, title, releaseDate.Format("2006-01-02")))

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("[MailService] 发送失败 %s: %v", email, err)
		return &SendResult{Sent: false, Reason: err.Error()}
	}

	log.Printf("[MailService] 邮件已发送: 《%s》上映提醒 -> %s", title, email)
	return &SendResult{Sent: true}
}

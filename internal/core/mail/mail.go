// Package mail 定义发信出口。真正的 SMTP/第三方投递不在本服务内，
// 默认实现只把邮件写进日志，方便本地联调。
package mail

import (
	"context"

	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type LogMailer struct{ Log *zap.Logger }

func NewLogMailer(l *zap.Logger) *LogMailer { return &LogMailer{Log: l.Named("mail")} }

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.Log.Info("mail queued",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

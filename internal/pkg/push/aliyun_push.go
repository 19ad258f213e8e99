package push

import (
	"encoding/json"
	"fmt"

	"github.com/jjhbk/Devrang/internal/pkg/config"
	"github.com/jjhbk/Devrang/pkg/logger"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"
	"github.com/aliyun/alibaba-cloud-sdk-go/services/push"
	"go.uber.org/zap"
)

// Message is one operator-facing notification
type Message struct {
	Account string // operator email; empty means broadcast to every device
	Title   string
	Body    string
	Ext     map[string]string // opaque payload for the app, e.g. orderId
}

// PushService delivers a Message to operator devices
type PushService interface {
	Send(msg Message) error
}

type AliyunPushService struct {
	client *push.Client
	appKey int64
}

func NewAliyunPushService(cfg config.PushConfig) (*AliyunPushService, error) {
	if cfg.AccessKeyID == "" || cfg.AppKey == 0 {
		return nil, fmt.Errorf("push config is missing")
	}

	client, err := push.NewClientWithAccessKey(
		cfg.RegionID,
		cfg.AccessKeyID,
		cfg.AccessKeySecret,
	)
	if err != nil {
		return nil, err
	}

	return &AliyunPushService{
		client: client,
		appKey: cfg.AppKey,
	}, nil
}

func (s *AliyunPushService) Send(msg Message) error {
	target, value := "ACCOUNT", msg.Account
	if value == "" {
		target, value = "ALL", "ALL"
	}
	return s.sendPush(target, value, msg.Title, msg.Body, msg.Ext)
}

func (s *AliyunPushService) sendPush(target, targetValue, title, body string, extParameters map[string]string) error {
	request := push.CreatePushRequest()
	request.AppKey = requests.NewInteger(int(s.appKey))
	request.Target = target
	request.TargetValue = targetValue
	request.Title = title
	request.Body = body
	request.DeviceType = "ALL"
	request.PushType = "NOTICE"

	if len(extParameters) > 0 {
		extJSON, _ := json.Marshal(extParameters)
		request.AndroidExtParameters = string(extJSON)
		request.IOSExtParameters = string(extJSON)
	}

	_, err := s.client.Push(request)
	return err
}

// LogPushService writes messages to the log; used when no push credentials are configured
type LogPushService struct{}

func (LogPushService) Send(msg Message) error {
	logger.Log.Info("notification",
		zap.String("account", msg.Account),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body),
		zap.Any("ext", msg.Ext),
	)
	return nil
}

// New picks aliyun push when configured and falls back to the log
func New(cfg config.PushConfig) PushService {
	svc, err := NewAliyunPushService(cfg)
	if err != nil {
		logger.Log.Info("push disabled, notifications go to the log", zap.Error(err))
		return LogPushService{}
	}
	return svc
}

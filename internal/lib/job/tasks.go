package job

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/contactform/internal/model"
	"github.com/hibiken/asynq"
)

const (
	TaskMessageNotification      = "notify:message"
	TaskRegistrationNotification = "notify:registration"
)

type MessageNotificationPayload struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type RegistrationNotificationPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
}

func notificationOptions() []asynq.Option {
	return []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30 * time.Second),
	}
}

func NewMessageNotificationTask(id int64, req *model.MessageRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(MessageNotificationPayload{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskMessageNotification, payload, notificationOptions()...), nil
}

func NewRegistrationNotificationTask(id int64, req *model.RegistrationRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(RegistrationNotificationPayload{
		ID:          id,
		Name:        req.Name,
		Email:       req.Email,
		Institution: req.Institution,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskRegistrationNotification, payload, notificationOptions()...), nil
}

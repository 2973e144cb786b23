package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-kanban-api/internal/config"
)

// InviteEvent describes one processed board invitation for downstream
// consumers (ops dashboards, audit pipelines).
type InviteEvent struct {
	BoardID   string `json:"board_id"`
	Email     string `json:"email"`
	InvitedBy string `json:"invited_by"`
	Outcome   string `json:"outcome"` // "member_added" | "token_issued"
}

// EventPublisher publishes invite events. Implementations are strictly
// best-effort: callers log and ignore failures.
type EventPublisher interface {
	PublishInvite(ctx context.Context, ev InviteEvent) error
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

func NewPublisher(cfg *config.Config) (EventPublisher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, fmt.Errorf("SNS_INVITE_TOPIC_ARN not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &publisher{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSTopicARN}, nil
}

func (p *publisher) PublishInvite(ctx context.Context, ev InviteEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String("board.invite"),
	})
	return err
}

package nodes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/propertytek/chatflow/notify"
	"github.com/propertytek/chatflow/workflow"
)

// SMSConfirmer texts the tour confirmation. It is a no-op when SMS is
// disabled, unconfigured, or the state lacks a phone or appointment.
type SMSConfirmer struct {
	sms    notify.Sender
	logger *zap.Logger
}

func (n *SMSConfirmer) Execute(ctx context.Context, st workflow.State, cfg workflow.RunConfig) (workflow.Delta, error) {
	if st.UserPhone == "" || st.Appointment == nil {
		n.logger.Info("skipping sms, missing phone or appointment details")
		return workflow.NewDelta(), nil
	}
	if !cfg.EnableSMS || n.sms == nil {
		n.logger.Info("skipping sms, disabled by configuration")
		return workflow.NewDelta(), nil
	}

	result, err := n.sms.SendSMS(ctx, st.UserPhone, notify.ConfirmationBody(*st.Appointment))
	if err != nil {
		return workflow.Delta{}, fmt.Errorf("send confirmation sms: %w", err)
	}

	n.logger.Info("sms confirmation attempted", zap.Bool("sent", result.Success))
	return workflow.NewDelta().
		SMSSent(result.Success).
		SMSResult(&result), nil
}

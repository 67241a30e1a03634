// Package nodes implements the leasing workflow handlers. Each node is a
// small struct holding its collaborators; RegisterAll wires the full set
// into a registry for the driver.
package nodes

import (
	"go.uber.org/zap"

	"github.com/propertytek/chatflow/catalog"
	"github.com/propertytek/chatflow/llm"
	"github.com/propertytek/chatflow/notify"
	"github.com/propertytek/chatflow/scheduler"
	"github.com/propertytek/chatflow/workflow"
)

// Deps bundles the collaborators the node set needs. All fields are
// required except SMS, which may be nil when confirmations are disabled.
type Deps struct {
	LLM       llm.Client
	Catalog   *catalog.Store
	Scheduler scheduler.Provider
	SMS       notify.Sender
	Logger    *zap.Logger
}

// RegisterAll builds every leasing node and registers it under its stable
// identifier.
func RegisterAll(reg *workflow.Registry, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "nodes"))

	handlers := map[string]workflow.Handler{
		workflow.NodeAnalyzeIntent:       &IntentAnalyzer{llm: deps.LLM, logger: logger},
		workflow.NodeSearchProperties:    &PropertySearcher{catalog: deps.Catalog, logger: logger},
		workflow.NodeReflect:             &Reflector{logger: logger},
		workflow.NodeGetAvailableSlots:   &SlotFinder{scheduler: deps.Scheduler, logger: logger},
		workflow.NodeCollectUserInfo:     &UserInfoCollector{logger: logger},
		workflow.NodeCreateCalendarEvent: &CalendarManager{scheduler: deps.Scheduler, logger: logger},
		workflow.NodeSendSMSConfirmation: &SMSConfirmer{sms: deps.SMS, logger: logger},
		workflow.NodeGenerateResponse:    &ResponseGenerator{llm: deps.LLM, logger: logger},
	}
	for id, h := range handlers {
		if err := reg.Register(id, h); err != nil {
			return err
		}
	}
	return nil
}

package factory

import (
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/adapters/httpserver"
	"github.com/deepcatch/deepcatch/internal/adapters/smtpgw"
	"github.com/deepcatch/deepcatch/internal/config"
	"github.com/deepcatch/deepcatch/internal/core"
	"github.com/deepcatch/deepcatch/internal/ports"
	"github.com/deepcatch/deepcatch/internal/trust"
)

// GatewayFactory creates the content ingestion gateways
type GatewayFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGatewayFactory creates a new gateway factory
func NewGatewayFactory(cfg *config.Config, logger *zap.Logger) *GatewayFactory {
	return &GatewayFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGateways creates all enabled gateways. The HTTP API is always on;
// the SMTP proxy only when configured.
func (f *GatewayFactory) CreateGateways(service *core.AnalysisService) []ports.Gateway {
	gateways := []ports.Gateway{
		httpserver.NewServer(service, f.cfg.GetString("server.listen_address"), f.logger),
	}

	if f.cfg.GetBool("smtp.enabled") {
		trusted := trust.NewChecker(f.cfg.GetStringSlice("smtp.trusted_domains"), f.logger)

		gateways = append(gateways, smtpgw.NewPostfixGateway(
			service,
			trusted,
			f.logger,
			f.cfg.GetString("smtp.listen_address"),
			f.cfg.GetBool("smtp.block_high_risk"),
			f.cfg.GetString("smtp.headers.verdict"),
			f.cfg.GetString("smtp.headers.confidence"),
			f.cfg.GetString("smtp.headers.reason"),
			f.cfg.GetString("smtp.postfix_addr"),
			f.cfg.GetInt("smtp.postfix_port"),
			f.cfg.GetBool("smtp.postfix_enabled"),
			f.cfg.GetString("smtp.subject_prefix"),
			f.cfg.GetBool("smtp.modify_subject"),
		))
	}

	return gateways
}

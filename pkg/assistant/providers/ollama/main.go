package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

var ErrNoServers = errors.New("no ollama servers registered")

// OllamaProvider picks an online server from the farm. When the farm has not
// seen any server come online yet, it talks to the first configured URL
// directly so the caller sees the real dial error.
type OllamaProvider struct {
	ollamafarm *ollamafarm.Farm
	servers    []*url.URL
	logger     *Logger.Logger
}

func New(serverURLs []string, logger *Logger.Logger) (*OllamaProvider, error) {
	farm := ollamafarm.New()
	servers := make([]*url.URL, 0, len(serverURLs))

	for _, raw := range serverURLs {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama url %q: %w", raw, err)
		}
		if err := farm.RegisterURL(u.String(), nil); err != nil {
			logger.Warnf("ollama server %s not registered: %v", u, err)
		}
		servers = append(servers, u)
	}
	if len(servers) == 0 {
		return nil, ErrNoServers
	}

	return &OllamaProvider{
		ollamafarm: farm,
		servers:    servers,
		logger:     logger,
	}, nil
}

func (o *OllamaProvider) client() *api.Client {
	if ollama := o.ollamafarm.First(&ollamafarm.Where{Offline: false}); ollama != nil {
		return ollama.Client()
	}
	o.logger.Debugf("no online ollama server in farm, dialing %s directly", o.servers[0])
	return api.NewClient(o.servers[0], http.DefaultClient)
}

func (o *OllamaProvider) Chat(
	ctx context.Context,
	req api.ChatRequest,
	fn api.ChatResponseFunc,
) error {
	return o.client().Chat(ctx, &req, fn)
}

func (o *OllamaProvider) Heartbeat(ctx context.Context) error {
	return o.client().Heartbeat(ctx)
}

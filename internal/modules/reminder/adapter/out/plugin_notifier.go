package out

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"ttrack/internal/modules/reminder/adapter/out/rpc"
	"ttrack/internal/modules/reminder/domain"
	reminderout "ttrack/internal/modules/reminder/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// PluginNotifier fans a reminder event out to every enabled notifier
// plugin. Plugins run out of process over go-plugin gRPC; a failing
// plugin never blocks the others.
type PluginNotifier struct {
	manifests *FileManifestStore
}

func NewPluginNotifier(manifests *FileManifestStore) *PluginNotifier {
	return &PluginNotifier{manifests: manifests}
}

var (
	_ reminderout.Notifier         = (*PluginNotifier)(nil)
	_ reminderout.NotifierRegistry = (*PluginNotifier)(nil)
)

func (n *PluginNotifier) Notify(ctx context.Context, event domain.Event) error {
	manifests, err := n.manifests.Load(ctx)
	if err != nil {
		return err
	}
	request := &rpc.NotifyRequest{
		Kind:    string(event.Kind),
		EntryID: event.EntryID,
		Title:   event.Title,
		Message: event.Message,
		FiredAt: event.FiredAt.Format(time.RFC3339),
	}
	var errs []error
	for _, manifest := range manifests {
		if !manifest.Enabled {
			continue
		}
		if err := manifest.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("notifier %s: %w", manifest.Name, err))
			continue
		}
		if err := n.notifyOne(ctx, manifest, request); err != nil {
			errs = append(errs, fmt.Errorf("notifier %s: %w", manifest.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (n *PluginNotifier) List(ctx context.Context) ([]domain.NotifierManifest, error) {
	return n.manifests.Load(ctx)
}

func (n *PluginNotifier) Check(ctx context.Context, manifest domain.NotifierManifest) error {
	client, closeFn, err := n.connect(manifest)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.GetMetadata(callCtx); err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	return nil
}

func (n *PluginNotifier) notifyOne(ctx context.Context, manifest domain.NotifierManifest, request *rpc.NotifyRequest) error {
	client, closeFn, err := n.connect(manifest)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.Notify(callCtx, request); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

func (n *PluginNotifier) connect(manifest domain.NotifierManifest) (rpc.NotifierClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start notifier plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense notifier plugin: %w", err)
	}
	typed, ok := raw.(rpc.NotifierClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("unexpected notifier client type %T", raw)
	}
	return typed, closeFn, nil
}

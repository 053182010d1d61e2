package main

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/hashicorp/go-plugin"

	notifierrpc "ttrack/internal/modules/reminder/adapter/out/rpc"
)

// A desktop notifier that shells out to notify-send. Falls back to
// stdout when the binary is missing so the host still sees a delivery.
type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *notifierrpc.Empty) (*notifierrpc.Metadata, error) {
	return &notifierrpc.Metadata{
		Name:    "desktop",
		Version: "1.0.0",
	}, nil
}

func (s *server) Notify(ctx context.Context, in *notifierrpc.NotifyRequest) (*notifierrpc.NotifyResponse, error) {
	if path, err := exec.LookPath("notify-send"); err == nil {
		cmd := exec.CommandContext(ctx, path, "--app-name=ttrack", in.Title, in.Message)
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("notify-send: %w", err)
		}
		return &notifierrpc.NotifyResponse{Delivered: true}, nil
	}
	fmt.Printf("[%s] %s: %s\n", in.Kind, in.Title, in.Message)
	return &notifierrpc.NotifyResponse{Delivered: true}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: notifierrpc.HandshakeConfig,
		Plugins:         notifierrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}

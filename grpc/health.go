package grpc

import (
	"fmt"
	"log"
	"net"

	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer 通过 gRPC 健康检查协议暴露 bot 的网关状态。
// 每个 board 注册为一个服务名，空服务名代表整个进程。
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	services []string
}

// NewHealthServer 创建健康检查服务，所有服务初始状态均为 NOT_SERVING
func NewHealthServer(services ...string) *HealthServer {
	hs := &HealthServer{
		server:   grpc.NewServer(),
		health:   health.NewServer(),
		services: append([]string{""}, services...),
	}
	healthpb.RegisterHealthServer(hs.server, hs.health)
	hs.SetServing(false)
	return hs
}

// SetServing 切换所有已注册服务的状态
func (hs *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	for _, svc := range hs.services {
		hs.health.SetServingStatus(svc, status)
	}
}

// Serve 在给定监听器上提供服务，直到 Stop 被调用
func (hs *HealthServer) Serve(lis net.Listener) error {
	return hs.server.Serve(lis)
}

// ListenAndServe 监听 address 并在后台提供服务
func (hs *HealthServer) ListenAndServe(address string) error {
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("无法监听 gRPC 地址 %s: %w", address, err)
	}
	go func() {
		if err := hs.Serve(lis); err != nil {
			log.Printf("gRPC 健康检查服务已退出: %v", err)
		}
	}()
	log.Printf("gRPC 健康检查服务已启动: %s", address)
	return nil
}

// Stop 将所有服务标记为 NOT_SERVING 并优雅关闭
func (hs *HealthServer) Stop() {
	hs.health.Shutdown()
	hs.server.GracefulStop()
}

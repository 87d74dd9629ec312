package probe

import (
	"context"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

type ICMPConfig struct {
	Timeout    time.Duration `mapstructure:"ping_timeout"`
	Privileged bool          `mapstructure:"ping_privileged"`
}

type PingResult struct {
	Sent     int
	Received int
	RTT      time.Duration
	Addr     string
}

type ICMPClient struct {
	cfg ICMPConfig
}

func NewICMPClient(cfg ICMPConfig) *ICMPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &ICMPClient{cfg: cfg}
}

// Ping sends a single echo request and waits at most the configured timeout.
func (c *ICMPClient) Ping(ctx context.Context, target string) (PingResult, error) {
	p, err := probing.NewPinger(target)
	if err != nil {
		return PingResult{}, fmt.Errorf("resolve %s: %w", target, err)
	}
	p.Count = 1
	p.Timeout = c.cfg.Timeout
	p.SetPrivileged(c.cfg.Privileged)

	if err := p.RunWithContext(ctx); err != nil {
		return PingResult{}, err
	}
	st := p.Statistics()
	res := PingResult{Sent: st.PacketsSent, Received: st.PacketsRecv, RTT: st.AvgRtt}
	if st.IPAddr != nil {
		res.Addr = st.IPAddr.String()
	}
	return res, nil
}

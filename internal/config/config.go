// Package config loads xskio.Config from a file and XSKIO_-prefixed
// environment variables via viper, layered over DefaultConfig's
// values.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/xskio/xskio"
	"github.com/xskio/xskio/internal/xdpabi"
)

// Load reads configuration from configPath (if non-empty), then layers
// environment variables prefixed XSKIO_ on top, falling back to
// xskio.DefaultConfig()'s values for anything unset.
func Load(configPath string) (xskio.Config, error) {
	def := xskio.DefaultConfig()

	v := viper.New()
	v.SetDefault("frame_sz", def.FrameSize)
	v.SetDefault("fr_depth", def.FrDepth)
	v.SetDefault("rx_depth", def.RxDepth)
	v.SetDefault("tx_depth", def.TxDepth)
	v.SetDefault("cr_depth", def.CrDepth)
	v.SetDefault("batch_cnt", def.BatchCnt)
	v.SetDefault("xdp_mode", int(def.XdpMode))
	v.SetDefault("ifname", def.Ifname)
	v.SetDefault("queue", def.Queue)
	v.SetDefault("max_concur_streams", def.MaxConcurStreams)
	v.SetDefault("max_in_flight_pkts", def.MaxInFlightPkts)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return xskio.Config{}, fmt.Errorf("read config file %s: %w", configPath, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("XSKIO")

	cfg := xskio.Config{
		FrameSize:        v.GetUint32("frame_sz"),
		FrDepth:          v.GetUint32("fr_depth"),
		RxDepth:          v.GetUint32("rx_depth"),
		TxDepth:          v.GetUint32("tx_depth"),
		CrDepth:          v.GetUint32("cr_depth"),
		BatchCnt:         v.GetUint32("batch_cnt"),
		XdpMode:          xdpabi.XdpMode(v.GetInt("xdp_mode")),
		Ifname:           v.GetString("ifname"),
		Queue:            v.GetUint32("queue"),
		MaxConcurStreams: v.GetUint32("max_concur_streams"),
		MaxInFlightPkts:  v.GetUint32("max_in_flight_pkts"),
	}

	if err := cfg.Validate(); err != nil {
		return xskio.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

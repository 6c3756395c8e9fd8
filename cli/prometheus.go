// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//nolint:gosec
package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/browser"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/counterdapp/utils"
)

const (
	ActionRate        = `sum by (action) (rate(counter_actions[30s]))`
	ActionFailureRate = `sum by (action) (rate(counter_action_failures[30s]))`
	NotConnectedRate  = `rate(counter_not_connected[30s])`
	ActionLatencyP95  = `histogram_quantile(0.95, sum by (le, action) (rate(counter_action_latency_seconds_bucket[30s])))`
	Inflight          = `counter_inflight_actions`
	SessionResets     = `counter_session_resets`
)

// Panels are the default dashboard expressions for a counter server.
var Panels = []string{
	ActionRate,
	ActionFailureRate,
	NotConnectedRate,
	ActionLatencyP95,
	Inflight,
	SessionResets,
}

type PrometheusStaticConfig struct {
	Targets []string `yaml:"targets"`
}

type PrometheusScrapeConfig struct {
	JobName       string                    `yaml:"job_name"`
	StaticConfigs []*PrometheusStaticConfig `yaml:"static_configs"`
	MetricsPath   string                    `yaml:"metrics_path"`
}

type PrometheusConfig struct {
	Global struct {
		ScrapeInterval     string `yaml:"scrape_interval"`
		EvaluationInterval string `yaml:"evaluation_interval"`
	} `yaml:"global"`
	ScrapeConfigs []*PrometheusScrapeConfig `yaml:"scrape_configs"`
}

// NewPrometheusConfig scrapes the metrics endpoint of every server in [uris].
func NewPrometheusConfig(uris []string, metricsPath string) (*PrometheusConfig, error) {
	endpoints := make([]string, len(uris))
	for i, uri := range uris {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, err
		}
		if u.Host == "" {
			return nil, fmt.Errorf("missing host in %q", uri)
		}
		endpoints[i] = u.Host
	}
	var prometheusConfig PrometheusConfig
	prometheusConfig.Global.ScrapeInterval = "1s"
	prometheusConfig.Global.EvaluationInterval = "1s"
	prometheusConfig.ScrapeConfigs = []*PrometheusScrapeConfig{
		{
			JobName: "counter",
			StaticConfigs: []*PrometheusStaticConfig{
				{
					Targets: endpoints,
				},
			},
			MetricsPath: metricsPath,
		},
	}
	return &prometheusConfig, nil
}

// DashboardURL links a prometheus graph page with one tab per panel.
//
// We must manually encode the params because prometheus skips any panels
// that are not numerically sorted and `url.params` only sorts
// lexicographically.
func DashboardURL(baseURI string, panels []string) string {
	var b strings.Builder
	b.WriteString(baseURI + "/graph")
	for i, panel := range panels {
		appendChar := "&"
		if i == 0 {
			appendChar = "?"
		}
		fmt.Fprintf(&b, "%sg%d.expr=%s&g%d.tab=0&g%d.step_input=1&g%d.range_input=5m", appendChar, i, url.QueryEscape(panel), i, i, i)
	}
	return b.String()
}

func (*Handler) GeneratePrometheus(
	uris []string,
	metricsPath string,
	baseURI string,
	openBrowser bool,
	startPrometheus bool,
	prometheusFile string,
	prometheusData string,
) error {
	prometheusConfig, err := NewPrometheusConfig(uris, metricsPath)
	if err != nil {
		return err
	}
	yamlData, err := yaml.Marshal(prometheusConfig)
	if err != nil {
		return err
	}
	if err := utils.SaveBytes(prometheusFile, yamlData); err != nil {
		return err
	}
	dashboard := DashboardURL(baseURI, Panels)

	if !startPrometheus {
		if !openBrowser {
			utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)

			// Emit command to run prometheus
			utils.Outf("{{green}}prometheus cmd:{{/}} /tmp/prometheus --config.file=%s --storage.tsdb.path=%s\n", prometheusFile, prometheusData)
			return nil
		}
		return browser.OpenURL(dashboard)
	}

	// Start prometheus and open browser
	//
	// Attempting to exit from the terminal will gracefully
	// stop this process.
	cmd := exec.CommandContext(context.Background(), "/tmp/prometheus", "--config.file="+prometheusFile, "--storage.tsdb.path="+prometheusData)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	errChan := make(chan error, 1)
	go func() {
		select {
		case <-errChan:
			return
		case <-time.After(5 * time.Second):
			if !openBrowser {
				utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)
				return
			}
			utils.Outf("{{cyan}}opening dashboard{{/}}\n")
			if err := browser.OpenURL(dashboard); err != nil {
				utils.Outf("{{red}}unable to open dashboard:{{/}} %s\n", err.Error())
			}
		}
	}()

	utils.Outf("{{cyan}}starting prometheus (/tmp/prometheus) in background{{/}}\n")
	if err := cmd.Run(); err != nil {
		errChan <- err
		utils.Outf("{{orange}}prometheus exited with error:{{/}} %v\n", err)
		utils.Outf("install prometheus from https://prometheus.io/download/ and move the binary to /tmp/prometheus\n")
		return err
	}
	utils.Outf("{{cyan}}prometheus exited{{/}}\n")
	return nil
}

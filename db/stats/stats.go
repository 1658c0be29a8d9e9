// Package stats submits bot metrics to InfluxDB.
// All methods are safe to call on a nil *Client, which discards everything.
package stats

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/starshine-sys/nbot/common/log"
)

// Client is an InfluxDB client
type Client struct {
	client influxdb2.Client
	write  api.WriteAPI

	cmdsMu sync.Mutex
	cmds   uint32

	emotesMu     sync.Mutex
	substituted  uint32
	failedEmotes uint32

	m  map[string]uint32
	mu sync.Mutex

	requests   map[string]uint32
	requestsMu sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new client and starts submitting metrics every minute.
func New(url, token, organization, database string) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		m:        make(map[string]uint32),
		requests: make(map[string]uint32),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	c.client = influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetBatchSize(20))
	c.write = c.client.WriteAPI(organization, database)

	go c.submit(ctx)

	return c
}

// Close stops submitting metrics and flushes anything not yet written.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	c.cancel()
	<-c.done
	c.client.Close()
	return nil
}

// EventHandler handles Arikawa events
func (c *Client) EventHandler(ev interface{}) {
	if c == nil {
		return
	}

	c.RegisterEvent(reflect.ValueOf(ev).Elem().Type().Name())
}

// RegisterEvent registers an event name.
func (c *Client) RegisterEvent(name string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.m[name]++
	c.mu.Unlock()
}

// IncCommand increments the command count by one
func (c *Client) IncCommand() {
	if c == nil {
		return
	}

	c.cmdsMu.Lock()
	c.cmds++
	c.cmdsMu.Unlock()
}

// IncEmotes records the outcome of one message rewrite.
func (c *Client) IncEmotes(substituted, failed int) {
	if c == nil {
		return
	}

	c.emotesMu.Lock()
	c.substituted += uint32(substituted)
	c.failedEmotes += uint32(failed)
	c.emotesMu.Unlock()
}

// IncRequests counts a request to the Discord API.
func (c *Client) IncRequests(method, path string, status int) {
	if c == nil {
		return
	}

	key := fmt.Sprintf("%v %v", EndpointMetricsName(method, path), status)

	c.requestsMu.Lock()
	c.requests[key]++
	c.requestsMu.Unlock()
}

func (c *Client) submit(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// submit metrics
			go c.submitInner()
		case <-ctx.Done():
			c.write.Flush()
			return
		}
	}
}

func (c *Client) submitInner() {
	log.Debug("Submitting metrics to InfluxDB")

	var cmds, substituted, failed, totalEvents uint32

	c.cmdsMu.Lock()
	cmds = c.cmds
	c.cmds = 0
	c.cmdsMu.Unlock()

	c.emotesMu.Lock()
	substituted, failed = c.substituted, c.failedEmotes
	c.substituted, c.failedEmotes = 0, 0
	c.emotesMu.Unlock()

	c.mu.Lock()
	im := make(map[string]interface{}, len(c.m))
	for k, v := range c.m {
		totalEvents += v
		im[k] = v
		c.m[k] = 0
	}
	c.mu.Unlock()

	if len(im) > 0 {
		c.write.WritePoint(influxdb2.NewPoint("events", nil, im, time.Now()))
	}

	c.requestsMu.Lock()
	rm := make(map[string]interface{}, len(c.requests))
	for k, v := range c.requests {
		rm[k] = v
	}
	c.requests = make(map[string]uint32)
	c.requestsMu.Unlock()

	if len(rm) > 0 {
		c.write.WritePoint(influxdb2.NewPoint("requests", nil, rm, time.Now()))
	}

	stats := runtime.MemStats{}
	runtime.ReadMemStats(&stats)

	data := map[string]interface{}{
		"events":        totalEvents,
		"commands":      cmds,
		"emotes":        substituted,
		"emotes_failed": failed,
		"alloc":         stats.Alloc,
		"sys":           stats.Sys,
		"total_alloc":   stats.TotalAlloc,
		"goroutines":    runtime.NumGoroutine(),
	}

	sysMem, err := mem.VirtualMemory()
	if err != nil {
		log.Errorf("Error getting system memory: %v", err)
	} else {
		data["total_sys"] = sysMem.Used
		data["total_sys_percent"] = sysMem.UsedPercent
	}

	cpuData, err := cpu.Percent(time.Second, true)
	if err != nil {
		log.Errorf("Error getting cpu info: %v", err)
	} else {
		for i, d := range cpuData {
			data[fmt.Sprintf("cpu_%d", i)] = d
		}
	}

	c.write.WritePoint(influxdb2.NewPoint("statistics", nil, data, time.Now()))
}

// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/buk-egse/internal/config"
	"github.com/tamzrod/buk-egse/internal/writer/ingest"
	wmodbus "github.com/tamzrod/buk-egse/internal/writer/modbus"
)

// BuildPlan converts one channel config into a Writer Plan.
// Assumes config has already passed validation and normalization.
func BuildPlan(ch cfg.ChannelConfig) (Plan, error) {
	if ch.ID == "" {
		return Plan{}, errors.New("writer: channel.id required")
	}

	plan := Plan{ChannelID: ch.ID}

	if st := ch.Status; st != nil {
		plan.Status = &StatusPlan{
			Protocol:   st.Protocol,
			Endpoint:   st.Endpoint,
			UnitID:     st.UnitID,
			BaseSlot:   st.Slot,
			DeviceName: ch.DeviceName,
		}
	}

	for _, m := range ch.Mirror {
		plan.Mirrors = append(plan.Mirrors, MirrorDest{
			Protocol: m.Protocol,
			Endpoint: m.Endpoint,
			UnitID:   m.UnitID,
			Address:  m.Address,
		})
	}

	return plan, nil
}

// BuildEndpointClients creates one client per unique protocol + endpoint of the plan.
func BuildEndpointClients(plan Plan, timeout time.Duration) (map[string]endpointClient, func() error, error) {
	type ep struct{ protocol, endpoint string }

	unique := map[string]ep{}
	if plan.Status != nil {
		unique[clientKey(plan.Status.Protocol, plan.Status.Endpoint)] = ep{plan.Status.Protocol, plan.Status.Endpoint}
	}
	for _, m := range plan.Mirrors {
		unique[clientKey(m.Protocol, m.Endpoint)] = ep{m.Protocol, m.Endpoint}
	}

	clients := make(map[string]endpointClient)
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	for key, e := range unique {
		var (
			c   endpointClient
			cl  func() error
			err error
		)

		switch e.protocol {
		case cfg.ProtocolModbus:
			var mc *wmodbus.EndpointClient
			mc, err = wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: e.endpoint, Timeout: timeout})
			if err == nil {
				c, cl = mc, mc.Close
			}
		case cfg.ProtocolIngest:
			var ic *ingest.EndpointClient
			ic, err = ingest.NewEndpointClient(ingest.Config{Endpoint: e.endpoint, Timeout: timeout})
			if err == nil {
				c, cl = ic, ic.Close
			}
		default:
			err = fmt.Errorf("writer: unknown protocol %q", e.protocol)
		}

		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		clients[key] = c
		closers = append(closers, cl)
	}

	return clients, closeAll, nil
}

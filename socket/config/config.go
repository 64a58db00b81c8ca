/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config holds the validated dial/listen configuration for the TCP
// client and server state machines: network family, address, TLS, and the
// knobs spec.md §3 attaches to a socket before it is ever created (idle
// timeout, address-family preference, line framing).
package config

import (
	"fmt"
	"net"
	"time"

	libval "github.com/go-playground/validator/v10"

	"github.com/nabbar/aio/certificates"
	"github.com/nabbar/aio/duration"
	libptc "github.com/nabbar/aio/network/protocol"
	"github.com/nabbar/aio/socket/framing"
)

// AddressFamily selects which IP family a Client prefers when both bind and
// destination hosts resolve to more than one family (spec.md §4.5).
type AddressFamily uint8

const (
	// FamilyAny lets the dial path prefer IPv6 and silently fall back to
	// IPv4 on the first connect failure, per spec.md's v6->v4 fallback.
	FamilyAny AddressFamily = iota
	FamilyIPv4
	FamilyIPv6
)

// TLS bundles the enable flag with the certificate material both Client and
// Server validate and hand to crypto/tls through certificates.TLSConfig.
type TLS struct {
	Enabled bool                  `mapstructure:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	Config  certificates.TLSConfig `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
	// ServerName overrides SNI on the client side; empty uses the dial host.
	ServerName string `mapstructure:"serverName" json:"serverName" yaml:"serverName" toml:"serverName"`
}

// Framing configures the optional line/segment splitting socket/framing
// applies to a connection's read side (spec.md §4.5, §9's parse_delimiter /
// parse_empty / delimiters[0..5] handle toggles). Delimiters must hold 1-5
// distinct bytes for Enabled to take effect.
type Framing struct {
	Enabled    bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	ParseEmpty bool   `mapstructure:"parseEmpty" json:"parseEmpty" yaml:"parseEmpty" toml:"parseEmpty"`
	Delimiters []byte `mapstructure:"delimiters" json:"delimiters" yaml:"delimiters" toml:"delimiters"`
}

// Scanner builds the framing.Scanner this configuration describes, or nil
// if framing isn't enabled.
func (f Framing) Scanner() (*framing.Scanner, error) {
	if !f.Enabled {
		return nil, nil
	}
	return framing.New(f.ParseEmpty, f.Delimiters...)
}

// Client is the validated configuration for one outbound TCP connection.
type Client struct {
	Network libptc.NetworkProtocol `mapstructure:"network" json:"network" yaml:"network" toml:"network" validate:"required"`
	Address string                 `mapstructure:"address" json:"address" yaml:"address" toml:"address" validate:"required"`
	// BindAddress optionally pins the local endpoint (spec.md §3's bind-DNS
	// role); empty lets the OS choose.
	BindAddress string `mapstructure:"bindAddress" json:"bindAddress" yaml:"bindAddress" toml:"bindAddress"`
	Family      AddressFamily      `mapstructure:"family" json:"family" yaml:"family" toml:"family"`
	TLS         TLS                `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`
	IdleTimeout duration.Duration  `mapstructure:"idleTimeout" json:"idleTimeout" yaml:"idleTimeout" toml:"idleTimeout"`
	Framing     Framing            `mapstructure:"framing" json:"framing" yaml:"framing" toml:"framing"`
}

// Server is the validated configuration for one TCP listener.
type Server struct {
	Network     libptc.NetworkProtocol `mapstructure:"network" json:"network" yaml:"network" toml:"network" validate:"required"`
	Address     string                 `mapstructure:"address" json:"address" yaml:"address" toml:"address" validate:"required"`
	TLS         TLS                    `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`
	IdleTimeout duration.Duration      `mapstructure:"idleTimeout" json:"idleTimeout" yaml:"idleTimeout" toml:"idleTimeout"`
	Framing     Framing                `mapstructure:"framing" json:"framing" yaml:"framing" toml:"framing"`
}

func validateNetwork(p libptc.NetworkProtocol) error {
	if !p.IsValid() {
		return ErrInvalidProtocol.Error(nil)
	}
	return nil
}

func validateAddress(network libptc.NetworkProtocol, address string) error {
	if address == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(address); err != nil {
		return ErrInvalidAddress.ErrorParent(fmt.Errorf("%s address %q: %w", network.String(), address, err))
	}
	return nil
}

// Validate checks the network/address/TLS combination, mirroring the
// teacher's validator-tag-plus-manual-check pattern (certificates.Config).
func (c *Client) Validate() error {
	err := ErrValidation.Error(nil)

	if er := libval.New().Struct(c); er != nil {
		if e, ok := er.(*libval.InvalidValidationError); ok {
			err.Add(e)
		}
		for _, e := range er.(libval.ValidationErrors) {
			//nolint goerr113
			err.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.StructNamespace(), e.ActualTag()))
		}
	}

	if e := validateNetwork(c.Network); e != nil {
		err.Add(e)
	} else if e = validateAddress(c.Network, c.Address); e != nil {
		err.Add(e)
	}

	if c.BindAddress != "" {
		if e := validateAddress(c.Network, c.BindAddress); e != nil {
			err.Add(e)
		}
	}

	if c.TLS.Enabled && c.TLS.Config == nil {
		err.Add(ErrInvalidTLSConfig.Error(nil))
	}

	if _, e := c.Framing.Scanner(); e != nil {
		err.Add(ErrInvalidFraming.ErrorParent(e))
	}

	if err.HasParent() {
		return err
	}
	return nil
}

// Validate checks the network/address/TLS combination for a listener.
func (s *Server) Validate() error {
	err := ErrValidation.Error(nil)

	if er := libval.New().Struct(s); er != nil {
		if e, ok := er.(*libval.InvalidValidationError); ok {
			err.Add(e)
		}
		for _, e := range er.(libval.ValidationErrors) {
			//nolint goerr113
			err.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.StructNamespace(), e.ActualTag()))
		}
	}

	if e := validateNetwork(s.Network); e != nil {
		err.Add(e)
	} else if e = validateAddress(s.Network, s.Address); e != nil {
		err.Add(e)
	}

	if s.TLS.Enabled && s.TLS.Config == nil {
		err.Add(ErrInvalidTLSConfig.Error(nil))
	}

	if _, e := s.Framing.Scanner(); e != nil {
		err.Add(ErrInvalidFraming.ErrorParent(e))
	}

	if err.HasParent() {
		return err
	}
	return nil
}

// DefaultIdleTimeout is used when a Client/Server's IdleTimeout is zero.
const DefaultIdleTimeout = duration.Duration(5 * time.Minute)

// GetIdleTimeout returns c.IdleTimeout, or DefaultIdleTimeout if unset.
func (c *Client) GetIdleTimeout() time.Duration {
	if c.IdleTimeout <= 0 {
		return DefaultIdleTimeout.Time()
	}
	return c.IdleTimeout.Time()
}

// GetIdleTimeout returns s.IdleTimeout, or DefaultIdleTimeout if unset.
func (s *Server) GetIdleTimeout() time.Duration {
	if s.IdleTimeout <= 0 {
		return DefaultIdleTimeout.Time()
	}
	return s.IdleTimeout.Time()
}

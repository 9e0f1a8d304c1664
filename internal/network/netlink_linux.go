//go:build linux

package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/containernetworking/plugins/pkg/ns"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/plexsphere/vlanctl/internal/command"
)

// defaultProcSys is the root of the sysctl tree.
const defaultProcSys = "/proc/sys"

// NetlinkExecutor performs commands natively: link and bridge VLAN operations
// through netlink, sysctls through /proc/sys. Commands in a named namespace
// run on a thread switched into that namespace.
type NetlinkExecutor struct {
	netnsDir string
	procSys  string
	logger   *slog.Logger
}

// NewNetlinkExecutor creates a NetlinkExecutor. cfg must have defaults applied.
func NewNetlinkExecutor(cfg Config, logger *slog.Logger) (*NetlinkExecutor, error) {
	return &NetlinkExecutor{
		netnsDir: cfg.NetnsDir,
		procSys:  defaultProcSys,
		logger:   logger.With("component", "network"),
	}, nil
}

// Exec applies cmd. The returned output is always empty; failures carry the
// netlink or filesystem error.
func (e *NetlinkExecutor) Exec(ctx context.Context, namespace string, cmd command.Command) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("network: netlink %q: %w", cmd.String(), err)
	}

	if namespace == "" {
		if err := e.apply(cmd); err != nil {
			return "", fmt.Errorf("network: netlink %q: %w", cmd.String(), err)
		}
		return "", nil
	}

	path := filepath.Join(e.netnsDir, namespace)
	netNS, err := ns.GetNS(path)
	if err != nil {
		return "", fmt.Errorf("network: netlink: open namespace %q: %w", namespace, err)
	}
	defer netNS.Close()

	err = netNS.Do(func(ns.NetNS) error {
		return e.apply(cmd)
	})
	if err != nil {
		return "", fmt.Errorf("network: netlink %q in %q: %w", cmd.String(), namespace, err)
	}

	e.logger.Debug("netlink command applied",
		"namespace", namespace,
		"command", cmd.String(),
	)
	return "", nil
}

func (e *NetlinkExecutor) apply(cmd command.Command) error {
	if err := validateDeviceName(cmd.Device); err != nil {
		return err
	}

	switch cmd.Verb {
	case command.VerbBridgeCreate:
		la := netlink.NewLinkAttrs()
		la.Name = cmd.Device
		if err := netlink.LinkAdd(&netlink.Bridge{LinkAttrs: la}); err != nil {
			if errors.Is(err, unix.EEXIST) {
				return fmt.Errorf("bridge %s already exists: %w", cmd.Device, err)
			}
			return fmt.Errorf("create bridge %s: %w", cmd.Device, err)
		}
		return nil

	case command.VerbLinkUp:
		link, err := linkByName(cmd.Device)
		if err != nil {
			return err
		}
		return netlink.LinkSetUp(link)

	case command.VerbLinkDown:
		link, err := linkByName(cmd.Device)
		if err != nil {
			return err
		}
		return netlink.LinkSetDown(link)

	case command.VerbVlanFiltering:
		link, err := linkByName(cmd.Device)
		if err != nil {
			return err
		}
		if _, ok := link.(*netlink.Bridge); !ok {
			return fmt.Errorf("%s is a %s device, not a bridge", cmd.Device, link.Type())
		}
		return netlink.BridgeSetVlanFiltering(link, true)

	case command.VerbSysctl:
		return e.writeSysctl(cmd.Device, string(cmd.Key), "1")

	case command.VerbSetMaster:
		link, err := linkByName(cmd.Device)
		if err != nil {
			return err
		}
		master, err := linkByName(cmd.Master)
		if err != nil {
			return err
		}
		return netlink.LinkSetMaster(link, master)

	case command.VerbVlanDel:
		link, err := linkByName(cmd.Device)
		if err != nil {
			return err
		}
		// self=false, master=true: the VLAN lives on the port's bridge.
		return netlink.BridgeVlanDel(link, uint16(cmd.VID), false, false, false, true)

	case command.VerbVlanAdd:
		link, err := linkByName(cmd.Device)
		if err != nil {
			return err
		}
		return netlink.BridgeVlanAdd(link, uint16(cmd.VID), cmd.Untagged, cmd.Untagged, false, true)

	case command.VerbBridgeDelete:
		link, err := netlink.LinkByName(cmd.Device)
		if err != nil {
			var notFound netlink.LinkNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Errorf("bridge %s doesn't exist; can't delete it: %w", cmd.Device, err)
			}
			return fmt.Errorf("lookup %s: %w", cmd.Device, err)
		}
		if _, ok := link.(*netlink.Bridge); !ok {
			return fmt.Errorf("%s is a %s device, not a bridge", cmd.Device, link.Type())
		}
		return netlink.LinkDel(link)
	}
	return fmt.Errorf("unsupported command verb %s", cmd.Verb)
}

func linkByName(name string) (netlink.Link, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}
	return link, nil
}

// writeSysctl sets net.ipv4.conf.<dev>.<key>. The path is built directly so
// that dotted sub-interface names are not mistaken for sysctl separators.
func (e *NetlinkExecutor) writeSysctl(dev, key, value string) error {
	path := filepath.Join(e.procSys, "net", "ipv4", "conf", dev, key)
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("sysctl %s: %w", path, err)
	}
	return nil
}

// validateDeviceName checks that name is a usable Linux interface name and is
// safe to embed in a /proc/sys path.
func validateDeviceName(name string) error {
	if name == "" {
		return fmt.Errorf("invalid device name: empty")
	}
	if len(name) >= unix.IFNAMSIZ {
		return fmt.Errorf("invalid device name %q: longer than %d characters", name, unix.IFNAMSIZ-1)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid device name %q", name)
	}
	for _, c := range name {
		if c == '/' || c == '\x00' || c == ' ' {
			return fmt.Errorf("invalid device name %q: contains prohibited character", name)
		}
	}
	return nil
}

package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xlayout/internal/engine"
	"github.com/1broseidon/xlayout/internal/layout"
	"github.com/1broseidon/xlayout/internal/profile"
	"github.com/1broseidon/xlayout/internal/xrandr"
)

func (s *Server) handleListOutputs(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListOutputsInput) (*mcpsdk.CallToolResult, ListOutputsOutput, error) {
	st, err := s.engine.Snapshot()
	if err != nil {
		return nil, ListOutputsOutput{}, err
	}

	out := ListOutputsOutput{Ghosts: st.Ghosts()}
	for _, o := range st.Outputs {
		info := OutputInfo{
			Name:      o.Name,
			Connected: o.Connected,
			Primary:   o.Primary,
			Active:    o.Active,
			Geometry:  o.Geometry,
		}
		for _, m := range o.Modes {
			info.Modes = append(info.Modes, m.Name)
			if m.Current {
				info.CurrentMode = m.Name
			}
			if m.Preferred {
				info.PreferredMode = m.Name
			}
		}
		out.Outputs = append(out.Outputs, info)
	}
	return nil, out, nil
}

func (s *Server) handleApplyLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyLayoutInput) (*mcpsdk.CallToolResult, ApplyLayoutOutput, error) {
	kind, err := layout.ParseKind(args.Mode)
	if err != nil {
		return nil, ApplyLayoutOutput{}, err
	}

	var plan *layout.Plan
	var reset bool
	if err := engine.Locked(func() error {
		var err error
		plan, reset, err = s.engine.Apply(kind)
		return err
	}); err != nil {
		return nil, ApplyLayoutOutput{}, err
	}

	out := ApplyLayoutOutput{Kind: string(plan.Kind), Reset: reset}
	for _, p := range plan.Placements {
		info := PlacementInfo{
			Output:  p.Output,
			Mode:    p.Mode,
			Primary: p.Primary,
		}
		if p.Relation != xrandr.RelationNone {
			info.Position = string(p.Relation) + " " + p.Anchor
		}
		out.Placements = append(out.Placements, info)
	}
	return nil, out, nil
}

func (s *Server) handleSaveProfile(_ context.Context, _ *mcpsdk.CallToolRequest, args SaveProfileInput) (*mcpsdk.CallToolResult, SaveProfileOutput, error) {
	if err := s.engine.Save(args.Name); err != nil {
		return nil, SaveProfileOutput{}, err
	}
	path, err := profile.Path(args.Name)
	if err != nil {
		return nil, SaveProfileOutput{}, err
	}
	return nil, SaveProfileOutput{Name: args.Name, Path: path}, nil
}

func (s *Server) handleLoadProfile(_ context.Context, _ *mcpsdk.CallToolRequest, args LoadProfileInput) (*mcpsdk.CallToolResult, LoadProfileOutput, error) {
	var restored int
	if err := engine.Locked(func() error {
		var err error
		restored, err = s.engine.Load(args.Name)
		return err
	}); err != nil {
		return nil, LoadProfileOutput{}, err
	}
	return nil, LoadProfileOutput{Name: args.Name, Restored: restored}, nil
}

func (s *Server) handleCleanOutputs(_ context.Context, _ *mcpsdk.CallToolRequest, _ CleanOutputsInput) (*mcpsdk.CallToolResult, CleanOutputsOutput, error) {
	var cleaned []string
	if err := engine.Locked(func() error {
		var err error
		cleaned, err = s.engine.Clean()
		return err
	}); err != nil {
		return nil, CleanOutputsOutput{}, err
	}
	return nil, CleanOutputsOutput{Cleaned: cleaned, Count: len(cleaned)}, nil
}

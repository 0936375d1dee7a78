package main

import (
	"context"

	"github.com/quay/zlog"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/feed"
)

// The advisory feed database, downstream indexer transport, and global
// agent listing service are external collaborators (spec §1, §9): this
// repo only depends on their interfaces. The types below are null-object
// placeholders satisfying those interfaces so vdscand links and runs
// standalone; a deployment wires in the real feed/transport clients in
// their place.

type noopFeedManager struct{}

func (noopFeedManager) GetCnaNameByFormat(ctx context.Context, format string) (string, error) {
	return "", nil
}

func (noopFeedManager) GetCnaNameBySource(ctx context.Context, source string) (string, error) {
	return "", nil
}

func (noopFeedManager) GetCnaNameByPrefix(ctx context.Context, pkgName, osPlatform string) (string, error) {
	return "", nil
}

func (noopFeedManager) GetCnaNameByContains(ctx context.Context, pkgName, osPlatform string) (string, error) {
	return "", nil
}

func (noopFeedManager) CheckAndTranslatePackage(ctx context.Context, pkg scanorch.Package, os scanorch.OS) ([]feed.Translation, error) {
	return nil, nil
}

func (noopFeedManager) VisitCandidates(ctx context.Context, cna string, visit feed.VisitFunc) error {
	return nil
}

func (noopFeedManager) Remediation(ctx context.Context, cveID string) (string, string, error) {
	return "", "", nil
}

func (noopFeedManager) VulnerabilityDetails(ctx context.Context, cveID string) (feed.VulnDetails, error) {
	return feed.VulnDetails{}, nil
}

type loggingDispatcher struct{}

func (loggingDispatcher) Dispatch(ctx context.Context, agentID string, alert *scanorch.Alert) error {
	zlog.Debug(ctx).Str("agent", agentID).Str("cve", alert.ID).Msg("dispatch alert")
	return nil
}

type loggingIndexer struct{}

func (loggingIndexer) Index(ctx context.Context, agentID string, element *scanorch.Element) error {
	zlog.Debug(ctx).Str("agent", agentID).Str("cve", element.ID).Msg("index element")
	return nil
}

type loggingArrayIndexer struct{}

func (loggingArrayIndexer) IndexAll(ctx context.Context, agentID string, elements []*scanorch.Element) error {
	zlog.Debug(ctx).Str("agent", agentID).Int("count", len(elements)).Msg("index elements")
	return nil
}

type emptyAgentList struct{}

func (emptyAgentList) Agents(ctx context.Context) ([]scanorch.Agent, error) {
	return nil, nil
}

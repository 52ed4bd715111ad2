package settings

import (
	"context"
	"fmt"

	"huntbot/internal/browse"
	"huntbot/internal/coded"
	"huntbot/internal/hunt"
	"huntbot/internal/log"
	"huntbot/internal/tabstore"
)

var ErrMissingLoginInfo = coded.NextCode()

// ChannelManager is the resolved folder/spreadsheet pair of one
// channel, plus the browser session for its hunt site.
type ChannelManager struct {
	folder   *tabstore.Folder
	sheet    *tabstore.Spreadsheet
	sessions *browse.Manager
}

func NewChannelManager(folder *tabstore.Folder, sheet *tabstore.Spreadsheet, sessions *browse.Manager) *ChannelManager {
	return &ChannelManager{folder: folder, sheet: sheet, sessions: sessions}
}

func (cm *ChannelManager) Folder() *tabstore.Folder { return cm.folder }

func (cm *ChannelManager) Spreadsheet() *tabstore.Spreadsheet { return cm.sheet }

// LoginInfo is the hunt site credentials stored in the tracking
// spreadsheet's named ranges.
type LoginInfo struct {
	Website  string
	Username string
	Password string
}

// LoginInfo reads the website/username/password named ranges. Any blank
// value is a coded failure.
func (cm *ChannelManager) LoginInfo(ctx context.Context) (LoginInfo, error) {
	ranges, err := cm.sheet.ReadRanges(ctx, []string{"website", "username", "password"})
	if err != nil {
		return LoginInfo{}, fmt.Errorf("read login info: %w", err)
	}
	first := func(rows [][]string) string {
		if len(rows) > 0 && len(rows[0]) > 0 {
			return rows[0][0]
		}
		return ""
	}
	info := LoginInfo{
		Website:  first(ranges[0]),
		Username: first(ranges[1]),
		Password: first(ranges[2]),
	}
	if info.Website == "" || info.Username == "" || info.Password == "" {
		return info, coded.Newf("login", ErrMissingLoginInfo, "missing login info in %s", cm.sheet.ID())
	}
	return info, nil
}

// Session returns the browser session for the given url's site.
func (cm *ChannelManager) Session(url string) (*browse.Session, error) {
	return cm.sessions.Session(url)
}

// Login runs the site login form with explicit credentials.
func (cm *ChannelManager) Login(ctx context.Context, username, password, url string) error {
	s, err := cm.sessions.Session(url)
	if err != nil {
		return err
	}
	return s.Login(ctx, username, password, url)
}

// TryLogin logs in with the stored credentials. Already logged in is
// success.
func (cm *ChannelManager) TryLogin(ctx context.Context) error {
	info, err := cm.LoginInfo(ctx)
	if err != nil {
		return err
	}
	s, err := cm.sessions.Session(info.Website)
	if err != nil {
		return err
	}
	return s.Login(ctx, info.Username, info.Password, "")
}

// ScanPage fetches url after a best-effort login and captures what the
// hunt scanner needs.
func (cm *ChannelManager) ScanPage(ctx context.Context, url string) (hunt.PageSource, error) {
	if err := cm.TryLogin(ctx); err != nil {
		log.WithComponent("settings").Warn("Auto-login failed, scanning anonymously", "url", url, "error", err)
	}
	s, err := cm.sessions.Session(url)
	if err != nil {
		return hunt.PageSource{}, err
	}
	if err := s.Browse(ctx, url); err != nil {
		return hunt.PageSource{}, err
	}
	title, err := s.Title(ctx)
	if err != nil {
		return hunt.PageSource{}, err
	}
	html, err := s.HTML(ctx)
	if err != nil {
		return hunt.PageSource{}, err
	}
	return hunt.PageSource{URL: url, Title: title, HTML: html}, nil
}

// ScanTitle fetches just the page title.
func (cm *ChannelManager) ScanTitle(ctx context.Context, url string) (string, error) {
	page, err := cm.ScanPage(ctx, url)
	if err != nil {
		return "", err
	}
	return page.Title, nil
}

// AppendRound adds a round divider to the tracking sheet.
func (cm *ChannelManager) AppendRound(ctx context.Context, title string) error {
	return hunt.AppendRound(ctx, cm.sheet, title)
}

// AppendPuzzle adds a puzzle tab to the tracking sheet and returns the
// tab name used.
func (cm *ChannelManager) AppendPuzzle(ctx context.Context, url, title string) (string, error) {
	return hunt.AppendPuzzle(ctx, cm.sheet, url, title)
}

// Stats summarizes puzzle statuses from the tracking sheet.
func (cm *ChannelManager) Stats(ctx context.Context) (string, error) {
	return hunt.Stats(ctx, cm.sheet)
}

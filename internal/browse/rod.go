package browse

import (
	"context"
	"fmt"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// rodDriver is the real browser driver on top of go-rod.
type rodDriver struct {
	headless bool
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

func newRodDriver(headless bool) driver {
	return &rodDriver{headless: headless}
}

func (d *rodDriver) Start(ctx context.Context, url string) error {
	d.launcher = launcher.New().Headless(d.headless)
	controlURL, err := d.launcher.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	d.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width: 1280, Height: 1024,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	d.page = page
	return nil
}

func (d *rodDriver) Navigate(ctx context.Context, url string) error {
	page := d.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (d *rodDriver) Elements(ctx context.Context, selector string) ([]element, error) {
	els, err := d.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]element, len(els))
	for i, el := range els {
		out[i] = rodElement{el: el}
	}
	return out, nil
}

func (d *rodDriver) WaitNavigation(ctx context.Context) func() error {
	wait := d.page.Context(ctx).WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	return func() error {
		wait()
		return nil
	}
}

func (d *rodDriver) Title(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (d *rodDriver) URL(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (d *rodDriver) HTML(ctx context.Context) (string, error) {
	return d.page.Context(ctx).HTML()
}

func (d *rodDriver) Links(ctx context.Context, selector string) ([]string, error) {
	els, err := d.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	var links []string
	for _, el := range els {
		href, err := el.Attribute("href")
		if err != nil || href == nil {
			continue
		}
		links = append(links, *href)
	}
	return links, nil
}

func (d *rodDriver) Screenshot(ctx context.Context, path string) error {
	data, err := d.page.Context(ctx).Screenshot(true, nil)
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (d *rodDriver) Close() error {
	var err error
	if d.browser != nil {
		err = d.browser.Close()
	}
	if d.launcher != nil {
		d.launcher.Cleanup()
	}
	return err
}

type rodElement struct {
	el *rod.Element
}

func (e rodElement) Input(ctx context.Context, text string) error {
	return e.el.Context(ctx).Input(text)
}

func (e rodElement) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

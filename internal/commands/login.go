package commands

import (
	"context"

	"huntbot/internal/events"
	"huntbot/internal/form"
	"huntbot/internal/gateway"
)

// Login is /login: run the hunt site's login form in the channel's
// browser session, prefilled from the stored credentials.
func (d *Deps) Login() gateway.Command {
	return gateway.Command{
		Name:        "login",
		Description: "Log the browser session in to the hunt site",
		Execute:     d.runLogin,
	}
}

func (d *Deps) runLogin(ctx context.Context, ic *gateway.Interaction) error {
	if err := requireGuild(ic); err != nil {
		return err
	}
	if err := ic.DeferReply(ctx); err != nil {
		return err
	}

	cm, err := d.channelManager(ctx, ic)
	if err != nil {
		return err
	}
	// Best effort: an incomplete stored triple still prefills what it has.
	info, err := cm.LoginInfo(ctx)
	if err != nil {
		d.logger.Debug("Login info incomplete", "channel_id", ic.ChannelID, "error", err)
	}
	if info.Website == "" {
		if ph := d.getPending(ic.ChannelID); ph != nil {
			info.Website, info.Username, info.Password = ph.URL, ph.Username, ph.Password
		}
	}

	f := form.New(d.Registry).
		SetTitle("Login").
		AddInput(gateway.TextInput{ID: "url", Label: "url", Value: info.Website, Required: true}).
		AddInput(gateway.TextInput{ID: "username", Label: "username", Value: info.Username, Required: true}).
		AddInput(gateway.TextInput{ID: "password", Label: "password", Value: info.Password, Required: true})
	f.SetOnSubmit(func(ctx context.Context, f *form.Form) (string, error) {
		url, err := f.Get("url").Get()
		if err != nil {
			return "", err
		}
		username, err := f.Get("username").Get()
		if err != nil {
			return "", err
		}
		password, err := f.Get("password").Get()
		if err != nil {
			return "", err
		}
		session, err := cm.Session(url)
		if err != nil {
			return "", err
		}
		session.ResetLogin()
		if err := session.Login(ctx, username, password, ""); err != nil {
			return "", err
		}
		d.publish(events.TypeLogin, map[string]string{
			"channel_id": ic.ChannelID,
			"site":       session.Origin().String(),
		})
		return "done", nil
	})
	return f.Reply(ctx, ic)
}

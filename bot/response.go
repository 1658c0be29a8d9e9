package bot

import (
	"github.com/diamondburned/arikawa/v3/utils/httputil/httpdriver"
	"github.com/starshine-sys/nbot/common"
	"github.com/starshine-sys/nbot/common/log"
	"github.com/starshine-sys/nbot/db/stats"
)

// onResponse logs a request's status code and adds it to metrics
func (b *Bot) onResponse(req httpdriver.Request, resp httpdriver.Response) error {
	method := ""

	v, ok := req.(*httpdriver.DefaultRequest)
	if ok {
		method = v.Method
		if method == "" {
			method = "GET"
		}
	}

	if resp == nil {
		return nil
	}

	if _, ok := resp.(*httpdriver.DefaultResponse); !ok {
		return nil
	}

	log.Debugf("%v %v => %v", method, stats.LoggingName(req.GetPath()), resp.GetStatus())

	b.Stats.IncRequests(method, req.GetPath(), resp.GetStatus())

	return nil
}

func version() string {
	return "nbot@" + common.Version()
}

// Package youtube lists the videos and shorts of a channel by walking the
// same paginated browse API the web frontend uses. The first page is
// scraped out of the channel page html, every following page is requested
// through a continuation token, and the package keeps walking until the
// site stops handing out tokens.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
	"tubelist/lib/restyutil"
	"tubelist/lib/scrapers/youtube/innertube"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const baseUrl = "https://www.youtube.com"

var NotAChannelUrl = fmt.Errorf("youtube: url does not point at a channel")
var BadStatus = fmt.Errorf("youtube: unexpected response status")

type channelPage struct {
	InitialData json.RawMessage
	Params      innertube.PageParams
}

type Client struct {
	Http *resty.Client

	pageCache *expirable.LRU[string, channelPage]
	throttle  time.Duration
}

type ClientOptions struct {
	// request timeout, 30s when zero
	Timeout time.Duration
	// minimum delay between consecutive continuation requests.
	// zero disables throttling entirely.
	Throttle time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	target, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("accept-language", "en-US,en")
	// skips the eu consent interstitial which otherwise replaces the
	// channel page with a form
	client.SetCookie(&http.Cookie{
		Name:   "CONSENT",
		Value:  "YES+cb",
		Domain: ".youtube.com",
	})
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(target.Hostname()))
	client.SetTimeout(opts.Timeout)

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	c := &Client{
		Http:      client,
		pageCache: expirable.NewLRU[string, channelPage](16, nil, time.Minute*15),
		throttle:  opts.Throttle,
	}
	return c, nil
}

// channelPage fetches a channel tab page and pulls the embedded listing
// state out of its html. Pages are cached per path so constructing the
// videos and shorts listings of the same channel costs one fetch each.
func (c *Client) channelPage(ctx context.Context, path string) (channelPage, error) {
	ctx, span := tracer.Start(ctx, "client:channelPage")
	defer span.End()
	span.SetAttributes(attribute.KeyValue{
		Key:   "path",
		Value: attribute.StringValue(path),
	})

	cached, ok := c.pageCache.Get(path)
	if ok {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return cached, nil
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return channelPage{}, err
	}
	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "bad status")
		return channelPage{}, fmt.Errorf("%w: %s from GET %s", BadStatus, res.Status(), path)
	}

	page, err := extractChannelPage(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract page state")
		return channelPage{}, err
	}

	c.pageCache.Add(path, page)
	return page, nil
}

// fetchContinuation executes a prepared browse request and returns the
// raw response payload. The caller decides what the payload means.
func (c *Client) fetchContinuation(ctx context.Context, req innertube.BrowseRequest) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "client:fetchContinuation")
	defer span.End()

	if err := c.sleepThrottle(ctx); err != nil {
		return nil, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeaders(req.Headers).
		SetBody(req.Body).
		Post(req.Url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "bad status")
		return nil, fmt.Errorf("%w: %s from POST %s", BadStatus, res.Status(), req.Url)
	}

	return json.RawMessage(res.Body()), nil
}

// sleepThrottle spaces out continuation requests. The delay is jittered
// so a long walk doesn't hit the site on a perfectly regular clock.
func (c *Client) sleepThrottle(ctx context.Context) error {
	if c.throttle <= 0 {
		return nil
	}

	jitter, err := random.IntRange(0, int(c.throttle/4)+1)
	if err != nil {
		return err
	}

	timer := time.NewTimer(c.throttle + time.Duration(jitter))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"tubelist/lib/scrapers/youtube/innertube"
)

// the uri styles a channel link can use. tried in order, the handle
// form last so "/user/..." never parses as a handle.
var channelUriRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(/(?:c|channel|u|user)/[%\w\-]+)`),
	regexp.MustCompile(`(/@[%\w.\-]+)`),
}

// ChannelUri pulls the canonical channel uri out of any channel link,
// e.g. "https://www.youtube.com/@handle/videos" becomes "/@handle".
// The uri doubles as the channel's identity key in the archive.
func ChannelUri(rawUrl string) (string, error) {
	for _, expr := range channelUriRegexes {
		groups := expr.FindStringSubmatch(rawUrl)
		if len(groups) >= 2 {
			return groups[1], nil
		}
	}
	return "", fmt.Errorf("%w: %s", NotAChannelUrl, rawUrl)
}

type Channel struct {
	client *Client
	uri    string

	videos *Listing
	shorts *Listing
}

// NewChannel accepts any link to the channel or one of its tab pages:
// "/channel/<id>", "/c/<name>", "/u/<name>", "/user/<name>" and the
// "/@handle" form all work. No network access happens here; pages are
// fetched when a listing or metadata accessor first needs them.
func NewChannel(client *Client, rawUrl string) (*Channel, error) {
	uri, err := ChannelUri(rawUrl)
	if err != nil {
		return nil, err
	}
	c := &Channel{
		client: client,
		uri:    uri,
	}
	c.videos = newListing(client, uri+"/videos", innertube.KindVideos)
	c.shorts = newListing(client, uri+"/shorts", innertube.KindShorts)
	return c, nil
}

func (c *Channel) Uri() string                 { return c.uri }
func (c *Channel) Url() string                 { return baseUrl + c.uri }
func (c *Channel) VideosUrl() string           { return c.Url() + "/videos" }
func (c *Channel) ShortsUrl() string           { return c.Url() + "/shorts" }
func (c *Channel) LiveUrl() string             { return c.Url() + "/streams" }
func (c *Channel) ReleasesUrl() string         { return c.Url() + "/releases" }
func (c *Channel) PlaylistsUrl() string        { return c.Url() + "/playlists" }
func (c *Channel) CommunityUrl() string        { return c.Url() + "/community" }
func (c *Channel) FeaturedChannelsUrl() string { return c.Url() + "/channels" }
func (c *Channel) AboutUrl() string            { return c.Url() + "/about" }

// WatchUrl expands a reference path produced by a listing into a full
// link.
func WatchUrl(ref string) string {
	return baseUrl + ref
}

// Videos lists the channel uploads, newest first.
func (c *Channel) Videos() *Listing { return c.videos }

// Shorts lists the channel shorts, newest first.
func (c *Channel) Shorts() *Listing { return c.shorts }

type channelMetadata struct {
	Metadata *struct {
		ChannelMetadataRenderer *struct {
			Title            string `json:"title"`
			ExternalId       string `json:"externalId"`
			VanityChannelUrl string `json:"vanityChannelUrl"`
			Description      string `json:"description"`
			Avatar           *struct {
				Thumbnails []struct {
					Url string `json:"url"`
				} `json:"thumbnails"`
			} `json:"avatar"`
		} `json:"channelMetadataRenderer"`
	} `json:"metadata"`
	Microformat *struct {
		MicroformatDataRenderer *struct {
			Tags []string `json:"tags"`
		} `json:"microformatDataRenderer"`
	} `json:"microformat"`
}

// metadata pulls the channel header block out of the main page. Missing
// branches are left as zero values, only transport problems error: the
// metadata block is best-effort on a page whose layout shifts often.
func (c *Channel) metadata(ctx context.Context) (channelMetadata, error) {
	page, err := c.client.channelPage(ctx, c.uri)
	if err != nil {
		return channelMetadata{}, err
	}

	var meta channelMetadata
	err = json.Unmarshal(page.InitialData, &meta)
	if err != nil {
		return channelMetadata{}, err
	}
	return meta, nil
}

func (c *Channel) Name(ctx context.Context) (string, error) {
	meta, err := c.metadata(ctx)
	if err != nil {
		return "", err
	}
	if meta.Metadata == nil || meta.Metadata.ChannelMetadataRenderer == nil {
		return "", nil
	}
	return meta.Metadata.ChannelMetadataRenderer.Title, nil
}

// Id returns the canonical "UC..." channel id, independent of whatever
// uri style the channel was constructed from.
func (c *Channel) Id(ctx context.Context) (string, error) {
	meta, err := c.metadata(ctx)
	if err != nil {
		return "", err
	}
	if meta.Metadata == nil || meta.Metadata.ChannelMetadataRenderer == nil {
		return "", nil
	}
	return meta.Metadata.ChannelMetadataRenderer.ExternalId, nil
}

func (c *Channel) VanityUrl(ctx context.Context) (string, error) {
	meta, err := c.metadata(ctx)
	if err != nil {
		return "", err
	}
	if meta.Metadata == nil || meta.Metadata.ChannelMetadataRenderer == nil {
		return "", nil
	}
	return meta.Metadata.ChannelMetadataRenderer.VanityChannelUrl, nil
}

func (c *Channel) Description(ctx context.Context) (string, error) {
	meta, err := c.metadata(ctx)
	if err != nil {
		return "", err
	}
	if meta.Metadata == nil || meta.Metadata.ChannelMetadataRenderer == nil {
		return "", nil
	}
	return meta.Metadata.ChannelMetadataRenderer.Description, nil
}

func (c *Channel) Keywords(ctx context.Context) ([]string, error) {
	meta, err := c.metadata(ctx)
	if err != nil {
		return nil, err
	}
	if meta.Microformat == nil || meta.Microformat.MicroformatDataRenderer == nil {
		return nil, nil
	}
	return meta.Microformat.MicroformatDataRenderer.Tags, nil
}

// AvatarUrl returns the largest avatar variant the page offers.
func (c *Channel) AvatarUrl(ctx context.Context) (string, error) {
	meta, err := c.metadata(ctx)
	if err != nil {
		return "", err
	}
	if meta.Metadata == nil || meta.Metadata.ChannelMetadataRenderer == nil ||
		meta.Metadata.ChannelMetadataRenderer.Avatar == nil {
		return "", nil
	}
	thumbnails := meta.Metadata.ChannelMetadataRenderer.Avatar.Thumbnails
	if len(thumbnails) == 0 {
		return "", nil
	}
	return thumbnails[len(thumbnails)-1].Url, nil
}

var descriptionUrlRegex = regexp.MustCompile(`https?://(?:www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b(?:[-a-zA-Z0-9()@:%_+.~#?&/=]*)`)
var descriptionMailRegex = regexp.MustCompile(`\S+@\S+\.\S+`)

// DescriptionUrls scans the channel description for links. Order of
// first appearance, duplicates removed.
func (c *Channel) DescriptionUrls(ctx context.Context) ([]string, error) {
	description, err := c.Description(ctx)
	if err != nil {
		return nil, err
	}
	return Uniqueify(descriptionUrlRegex.FindAllString(description, -1)), nil
}

// DescriptionMails scans the channel description for mail addresses.
// Urls containing an "@" would match the loose mail pattern too, so
// anything starting with a scheme is skipped.
func (c *Channel) DescriptionMails(ctx context.Context) ([]string, error) {
	description, err := c.Description(ctx)
	if err != nil {
		return nil, err
	}

	var mails []string
	for _, mail := range descriptionMailRegex.FindAllString(description, -1) {
		if strings.HasPrefix(mail, "http") {
			continue
		}
		mails = append(mails, mail)
	}
	return Uniqueify(mails), nil
}

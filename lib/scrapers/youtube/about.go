package youtube

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type ImageSource struct {
	Url    string
	Width  int
	Height int
}

type SocialLink struct {
	Title string
	Url   string
}

// About aggregates everything the /about page knows about a channel.
// Fields the page doesn't carry stay at their zero value.
type About struct {
	JoinedDate  time.Time
	Views       int64
	Country     string
	Subscribers int64
	Verified    bool
	Banner      []ImageSource
	SocialLinks []SocialLink
}

type textContent struct {
	Content string `json:"content"`
}

type aboutViewModel struct {
	JoinedDateText *textContent `json:"joinedDateText"`
	ViewCountText  string       `json:"viewCountText"`
	Country        string       `json:"country"`
	Links          []struct {
		ChannelExternalLinkViewModel *struct {
			Title *textContent `json:"title"`
			Link  *textContent `json:"link"`
		} `json:"channelExternalLinkViewModel"`
	} `json:"links"`
}

type pageHeaderViewModel struct {
	Title *struct {
		DynamicTextViewModel *struct {
			RendererContext *struct {
				AccessibilityContext *struct {
					Label string `json:"label"`
				} `json:"accessibilityContext"`
			} `json:"rendererContext"`
		} `json:"dynamicTextViewModel"`
	} `json:"title"`
	Metadata *struct {
		ContentMetadataViewModel *struct {
			MetadataRows []struct {
				MetadataParts []struct {
					Text *textContent `json:"text"`
				} `json:"metadataParts"`
			} `json:"metadataRows"`
		} `json:"contentMetadataViewModel"`
	} `json:"metadata"`
	Banner *struct {
		ImageBannerViewModel *struct {
			Image *struct {
				Sources []struct {
					Url    string `json:"url"`
					Width  int    `json:"width"`
					Height int    `json:"height"`
				} `json:"sources"`
			} `json:"image"`
		} `json:"imageBannerViewModel"`
	} `json:"banner"`
}

type aboutPage struct {
	OnResponseReceivedEndpoints []struct {
		ShowEngagementPanelEndpoint *struct {
			EngagementPanel *struct {
				EngagementPanelSectionListRenderer *struct {
					Content *struct {
						SectionListRenderer *struct {
							Contents []struct {
								ItemSectionRenderer *struct {
									Contents []struct {
										AboutChannelRenderer *struct {
											Metadata *struct {
												AboutChannelViewModel *aboutViewModel `json:"aboutChannelViewModel"`
											} `json:"metadata"`
										} `json:"aboutChannelRenderer"`
									} `json:"contents"`
								} `json:"itemSectionRenderer"`
							} `json:"contents"`
						} `json:"sectionListRenderer"`
					} `json:"content"`
				} `json:"engagementPanelSectionListRenderer"`
			} `json:"engagementPanel"`
		} `json:"showEngagementPanelEndpoint"`
	} `json:"onResponseReceivedEndpoints"`
	Header *struct {
		PageHeaderRenderer *struct {
			Content *struct {
				PageHeaderViewModel *pageHeaderViewModel `json:"pageHeaderViewModel"`
			} `json:"content"`
		} `json:"pageHeaderRenderer"`
	} `json:"header"`
}

// the about panel burrows eight renderers deep before any content shows
// up. returns nil the moment a branch is missing.
func (p *aboutPage) viewModel() *aboutViewModel {
	if len(p.OnResponseReceivedEndpoints) == 0 {
		return nil
	}
	endpoint := p.OnResponseReceivedEndpoints[0].ShowEngagementPanelEndpoint
	if endpoint == nil || endpoint.EngagementPanel == nil ||
		endpoint.EngagementPanel.EngagementPanelSectionListRenderer == nil ||
		endpoint.EngagementPanel.EngagementPanelSectionListRenderer.Content == nil ||
		endpoint.EngagementPanel.EngagementPanelSectionListRenderer.Content.SectionListRenderer == nil {
		return nil
	}
	sections := endpoint.EngagementPanel.EngagementPanelSectionListRenderer.Content.SectionListRenderer.Contents
	if len(sections) == 0 || sections[0].ItemSectionRenderer == nil {
		return nil
	}
	items := sections[0].ItemSectionRenderer.Contents
	if len(items) == 0 || items[0].AboutChannelRenderer == nil ||
		items[0].AboutChannelRenderer.Metadata == nil {
		return nil
	}
	return items[0].AboutChannelRenderer.Metadata.AboutChannelViewModel
}

func (p *aboutPage) header() *pageHeaderViewModel {
	if p.Header == nil || p.Header.PageHeaderRenderer == nil ||
		p.Header.PageHeaderRenderer.Content == nil {
		return nil
	}
	return p.Header.PageHeaderRenderer.Content.PageHeaderViewModel
}

// About fetches the channel /about page and collects its panel into one
// struct. Like the other metadata accessors it only errors on transport
// problems, structural misses leave the affected field zero.
func (c *Channel) About(ctx context.Context) (About, error) {
	page, err := c.client.channelPage(ctx, c.uri+"/about")
	if err != nil {
		return About{}, err
	}

	var parsed aboutPage
	err = json.Unmarshal(page.InitialData, &parsed)
	if err != nil {
		return About{}, err
	}

	var about About

	if model := parsed.viewModel(); model != nil {
		if model.JoinedDateText != nil {
			text := strings.TrimPrefix(model.JoinedDateText.Content, "Joined ")
			joined, err := time.Parse("Jan 2, 2006", text)
			if err == nil {
				about.JoinedDate = joined
			}
		}
		about.Views = parseViewCount(model.ViewCountText)
		about.Country = model.Country
		for _, link := range model.Links {
			view := link.ChannelExternalLinkViewModel
			if view == nil || view.Title == nil || view.Link == nil {
				continue
			}
			about.SocialLinks = append(about.SocialLinks, SocialLink{
				Title: view.Title.Content,
				Url:   view.Link.Content,
			})
		}
	}

	if header := parsed.header(); header != nil {
		if header.Title != nil && header.Title.DynamicTextViewModel != nil &&
			header.Title.DynamicTextViewModel.RendererContext != nil &&
			header.Title.DynamicTextViewModel.RendererContext.AccessibilityContext != nil {
			// the accessibility label reads "<name>, Verified" on
			// verified channels
			label := header.Title.DynamicTextViewModel.RendererContext.AccessibilityContext.Label
			parts := strings.Split(label, ", ")
			about.Verified = len(parts) > 1 && parts[len(parts)-1] == "Verified"
		}
		if header.Metadata != nil && header.Metadata.ContentMetadataViewModel != nil {
			rows := header.Metadata.ContentMetadataViewModel.MetadataRows
			if len(rows) > 1 && len(rows[1].MetadataParts) > 0 && rows[1].MetadataParts[0].Text != nil {
				count, ok := parseSubscriberCount(rows[1].MetadataParts[0].Text.Content)
				if ok {
					about.Subscribers = count
				}
			}
		}
		if header.Banner != nil && header.Banner.ImageBannerViewModel != nil &&
			header.Banner.ImageBannerViewModel.Image != nil {
			for _, source := range header.Banner.ImageBannerViewModel.Image.Sources {
				about.Banner = append(about.Banner, ImageSource{
					Url:    ensureScheme(source.Url),
					Width:  source.Width,
					Height: source.Height,
				})
			}
		}
	}

	return about, nil
}

// "1,234,567 views" -> 1234567
func parseViewCount(text string) int64 {
	text = strings.TrimSuffix(text, " views")
	text = strings.ReplaceAll(text, ",", "")
	views, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0
	}
	return views
}

// the header renders subscriber counts the way users see them: "12.3K
// subscribers", "1.2M subscribers", "No subscribers". Expands the
// suffix into an estimate.
func parseSubscriberCount(text string) (int64, bool) {
	text = strings.TrimSuffix(text, " subscribers")
	text = strings.TrimSuffix(text, " subscriber")
	text = strings.ReplaceAll(text, ",", "")
	if text == "" {
		return 0, false
	}
	if text == "No" {
		return 0, true
	}

	multiplier := float64(1)
	switch text[len(text)-1] {
	case 'K':
		multiplier = 1e3
		text = text[:len(text)-1]
	case 'M':
		multiplier = 1e6
		text = text[:len(text)-1]
	case 'B':
		multiplier = 1e9
		text = text[:len(text)-1]
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return int64(value * multiplier), true
}

func ensureScheme(link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return "https://" + link
}

package slate

import (
	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/markup"
	"github.com/nzambello/ploneview/pkg/urls"
)

// LinkElement renders "a" elements. The target is, in order of preference,
// an e-mail address, an external link, an internal link or the legacy url
// field. Internal targets are flattened to app URLs.
func LinkElement(n *urls.Normalizer) ElementFunc {
	return func(p Props) templ.Component {
		href, target := LinkTarget(n, p.Data)
		var title, rel string
		if p.Data != nil {
			title = p.Data.Title
		}
		if target == "_blank" {
			rel = "noopener noreferrer"
		}
		attrs := append(p.Attrs(),
			markup.Href("href", href),
			markup.Opt("title", title),
			markup.Opt("target", target),
			markup.Opt("rel", rel),
		)
		return markup.Element("a", attrs, p.Children...)
	}
}

// LinkTarget resolves the href and target of a link element.
func LinkTarget(n *urls.Normalizer, d *ElementData) (href, target string) {
	if d == nil {
		return "", ""
	}
	if l := d.Link; l != nil {
		if l.Internal != nil {
			target = l.Internal.Target
		}
		if target == "" && l.External != nil {
			target = l.External.Target
		}
		switch {
		case l.Email != nil && l.Email.EmailAddress != "":
			href = urls.NormaliseMail(l.Email.EmailAddress)
			if l.Email.EmailSubject != "" {
				href += "?subject=" + l.Email.EmailSubject
			}
			return href, target
		case l.External != nil && l.External.ExternalLink != "":
			return resolve(n, l.External.ExternalLink), target
		case l.Internal != nil && len(l.Internal.InternalLink) > 0 && l.Internal.InternalLink[0].ID != "":
			return resolve(n, l.Internal.InternalLink[0].ID), target
		}
	}
	return resolve(n, d.URL), target
}

func resolve(n *urls.Normalizer, u string) string {
	if u == "" {
		return ""
	}
	if n != nil && n.IsInternalURL(u) {
		return n.FlattenToAppURL(u)
	}
	return urls.CheckAndNormalizeURL(u).URL
}

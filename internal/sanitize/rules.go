package sanitize

// Rule tables for the sanitizer. The heuristics live here, in data,
// so each one can be audited and tested on its own; the traversal
// logic in sanitizer.go stays generic.

// boilerplateNameFragments flags nodes by class or id substring.
// Matching is case-insensitive.
var boilerplateNameFragments = []string{
	"publicidade",
	"advert",
	"adsbygoogle",
	"banner",
	"newsletter",
	"relacionad", // matérias relacionadas / related content
	"related",
	"comentario",
	"comment",
	"compartilh", // compartilhar / share widgets
	"share",
	"social-bar",
	"breadcrumb",
	"navegacao",
	"menu-",
	"sidebar",
	"paywall",
	"assinante",
	"loading",
	"spinner",
	"cookie",
}

// boilerplatePhrases flags short nodes by their visible text. A node
// carrying an image, video, or embed descendant is always spared, no
// matter what its text says.
var boilerplatePhrases = []string{
	"compartilhar no facebook",
	"compartilhar no twitter",
	"compartilhar no whatsapp",
	"compartilhe esta",
	"compartilhe:",
	"enviar por e-mail",
	"leia mais",
	"leia também",
	"saiba mais",
	"veja também",
	"carregando",
	"loading",
	"assine já",
	"assine nossa",
	"cadastre-se",
	"inscreva-se no canal",
	"continua após a publicidade",
	"continua depois da publicidade",
	"publicidade",
	"entendi",
}

// maxPhraseNodeChars bounds phrase matching to short nodes; a full
// paragraph quoting a share button label is content, not boilerplate.
const maxPhraseNodeChars = 80

// iframe classification by host, so the front end can size embeds
// without inspecting URLs again.
var (
	videoIframeHosts = []string{"youtube.com", "youtube-nocookie.com", "player.vimeo.com", "dailymotion.com"}
	audioIframeHosts = []string{"open.spotify.com", "soundcloud.com", "anchor.fm", "omny.fm"}
)

const (
	classVideoEmbed = "embed-video"
	classAudioEmbed = "embed-audio"
	classOtherEmbed = "embed-other"

	heightVideoEmbed = "360"
	heightAudioEmbed = "152"
	heightOtherEmbed = "480"
)

package security

import (
	"regexp"

	"github.com/leefowlercu/pais-hooks/pkg/types"
)

// Tier is one severity class of shell command patterns
type Tier struct {
	Number      int
	Description string
	Action      types.SecurityAction
	Patterns    []*regexp.Regexp
	// Exempt patterns carve commands out of this tier so a later tier can claim them
	Exempt []*regexp.Regexp
}

// Matches reports whether any of the tier's patterns match the command
func (t Tier) Matches(command string) bool {
	for _, pattern := range t.Exempt {
		if pattern.MatchString(command) {
			return false
		}
	}

	for _, pattern := range t.Patterns {
		if pattern.MatchString(command) {
			return true
		}
	}
	return false
}

// Shared fragments
const (
	// a recursive rm flag: -r, -rf, -Rf, -fr, --recursive ...
	rmRecursive = `(?:-[a-zA-Z]*[rR][a-zA-Z]*|--recursive)`
	// an rm target that is absolute, home-relative or a bare glob, optionally quoted.
	// Relative paths such as ./build or dist stay allowed.
	rmTarget = `["']?(?:/|~|\$(?:HOME\b|\{HOME\})|\*(?:["']|\s|;|&|\||$))`
	// commands that print or copy file contents
	fileReader = `\b(?:cat|less|more|head|tail|bat|strings|xxd|od|base64|cp|scp|grep)\b`
	// names of secret-bearing environment variables
	secretVar = `\$\{?[A-Za-z_]*(?:SECRET|TOKEN|PASSWORD|PASSWD|API_KEY|APIKEY|PRIVATE_KEY|ACCESS_KEY)[A-Za-z_]*\}?`
)

// tiers is consulted in ascending order; the first tier with a matching pattern wins
var tiers = []Tier{
	{
		Number:      1,
		Description: "Catastrophic deletion/destruction",
		Action:      types.ActionBlock,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\brm\s+(?:-\S+\s+)*` + rmRecursive + `\s+(?:[^\s;&|<>]+\s+)*` + rmTarget),
			regexp.MustCompile(`:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;\s*:`),
			regexp.MustCompile(`>\s*/dev/(?:sd[a-z]|nvme\d|hd[a-z]|disk\d)`),
			regexp.MustCompile(`\bmkfs\b`),
			regexp.MustCompile(`\bdd\s+.*\bof=/dev/(?:sd|nvme|hd|disk)`),
			regexp.MustCompile(`\bwipefs\b`),
			regexp.MustCompile(`\bshred\b.*\s/dev/`),
		},
	},
	{
		Number:      2,
		Description: "Reverse shell",
		Action:      types.ActionBlock,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`/dev/(?:tcp|udp)/\S+/\d+`),
			regexp.MustCompile(`\b(?:nc|ncat|netcat)\b.*\s-[a-zA-Z]*[ec]\s`),
			regexp.MustCompile(`(?i)\bsocat\b.*\bexec:`),
			regexp.MustCompile(`\bpython[0-9.]*\s+-c\s+.*\bsocket\b.*\bconnect\b`),
			regexp.MustCompile(`\bperl\s+-e\s+.*\bsocket\b`),
			regexp.MustCompile(`\bruby\s+-rsocket\b`),
			regexp.MustCompile(`\bmkfifo\b.*\b(?:nc|ncat|netcat)\b`),
		},
	},
	{
		Number:      3,
		Description: "Remote code execution",
		Action:      types.ActionBlock,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:curl|wget)\b.*\|\s*(?:sudo\s+)?(?:ba|z|da|k)?sh\b`),
			regexp.MustCompile(`\b(?:curl|wget)\b.*\|\s*(?:sudo\s+)?(?:python[0-9.]*|perl|ruby|node)\b`),
			regexp.MustCompile(`\b(?:ba|z)?sh\s+<\(\s*(?:curl|wget)\b`),
			regexp.MustCompile(`\beval\s+"?\$\(\s*(?:curl|wget)\b`),
			regexp.MustCompile(`\bcurl\b.*-o\s+/tmp/.*&&.*\bsh\b`),
			regexp.MustCompile(`\bbase64\s+(?:-d|--decode)\b.*\|\s*(?:ba|z)?sh\b`),
		},
	},
	{
		Number:      4,
		Description: "Prompt injection",
		Action:      types.ActionBlock,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)ignore\s+(?:all\s+)?(?:previous|prior|above)\s+instructions`),
			regexp.MustCompile(`(?i)disregard\s+(?:all\s+)?(?:previous|prior|your)\s+(?:instructions|rules)`),
			regexp.MustCompile(`(?i)forget\s+(?:everything|all)\s+(?:you|previous)`),
			regexp.MustCompile(`(?i)you\s+are\s+now\s+(?:in\s+)?(?:developer|dan|jailbreak)\s*mode`),
			regexp.MustCompile(`(?i)new\s+system\s+prompt`),
			regexp.MustCompile(`(?i)override\s+(?:your\s+)?safety`),
		},
	},
	{
		Number:      5,
		Description: "Credential access",
		Action:      types.ActionBlock,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(fileReader + `.*\.ssh/(?:id_|authorized_keys)`),
			regexp.MustCompile(fileReader + `.*\.aws/credentials`),
			regexp.MustCompile(fileReader + `.*\.(?:netrc|git-credentials|pgpass)\b`),
			regexp.MustCompile(fileReader + `.*\.docker/config\.json`),
			regexp.MustCompile(fileReader + `.*\.kube/config`),
			regexp.MustCompile(fileReader + `.*\.gnupg/`),
			regexp.MustCompile(fileReader + `.*/etc/shadow`),
			regexp.MustCompile(`\bbase64\b.*\.ssh`),
		},
	},
	{
		Number:      6,
		Description: "Secret environment exposure",
		Action:      types.ActionBlock,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:^|[;&|(])\s*(?:env|printenv|export\s+-p|set)\s*(?:$|[;&|>)])`),
			regexp.MustCompile(`\b(?:echo|printf|printenv)\b.*` + secretVar),
			regexp.MustCompile(`\bprintenv\s+[A-Za-z_]*(?:SECRET|TOKEN|PASSWORD|KEY)`),
			regexp.MustCompile(`/proc/\S*/environ`),
			regexp.MustCompile(`\b(?:cat|less|more|head|tail|bat)\s+(?:\S+/)?\.env(?:\.[\w-]+)?(?:\s|$)`),
		},
	},
	{
		Number:      7,
		Description: "Destructive git operation",
		Action:      types.ActionWarn,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bgit\s+push\b.*(?:--force|--force-with-lease|\s-f\b)`),
			regexp.MustCompile(`\bgit\s+reset\s+--hard\b`),
			regexp.MustCompile(`\bgit\s+clean\s+-[a-zA-Z]*f`),
			regexp.MustCompile(`\bgit\s+branch\s+-D\b`),
			regexp.MustCompile(`\bgit\s+checkout\s+--\s+\.`),
			regexp.MustCompile(`\bgit\s+stash\s+(?:drop|clear)\b`),
			regexp.MustCompile(`\bgit\s+(?:filter-branch|filter-repo)\b`),
			regexp.MustCompile(`\bgit\s+reflog\s+expire\b`),
		},
	},
	{
		Number:      8,
		Description: "Privilege escalation/system modification",
		Action:      types.ActionWarn,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bsudo\b`),
			regexp.MustCompile(`\bsu\s+(?:-|root\b)`),
			regexp.MustCompile(`\bchmod\s+(?:-R\s+)?(?:777|[ugoa]*\+s|[2467][0-7]{3})\b`),
			regexp.MustCompile(`\bchown\s+(?:-R\s+)?root\b`),
			regexp.MustCompile(`\b(?:systemctl|service)\s+(?:\S+\s+)?(?:stop|disable|mask|restart)\b`),
			regexp.MustCompile(`\bcrontab\s+-[er]\b`),
			regexp.MustCompile(`>>?\s*/etc/`),
			regexp.MustCompile(`(?:^|[;&|(]\s*)\s*(?:useradd|usermod|userdel|passwd|visudo)\b`),
			regexp.MustCompile(`\b(?:iptables|ufw|nft)\b`),
		},
	},
	{
		Number:      9,
		Description: "Network egress",
		Action:      types.ActionLog,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:^|[\s;&|(])(?:curl|wget|http|xh)\s`),
			regexp.MustCompile(`(?:^|[\s;&|(])(?:ssh|mosh|telnet|ftp|sftp|scp|rsync|nc|ncat)\s`),
			regexp.MustCompile(`\bgit\s+(?:clone|fetch|pull|push|ls-remote)\b`),
		},
		Exempt: exfiltration,
	},
	{
		Number:      10,
		Description: "Bulk data exfiltration",
		Action:      types.ActionBlock,
		Patterns:    exfiltration,
	},
}

// exfiltration shapes: uploads of files, archives or home/system directories to remote hosts
var exfiltration = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:curl|wget)\b.*(?:\s-d\s*@|--data(?:-binary|-raw|-urlencode)?[\s=]*@|\s-F\s*\S*=@|\s-T\s|--upload-file|--post-file)`),
	regexp.MustCompile(`\btar\b.*\|\s*(?:ssh|nc|ncat|netcat|curl)\b`),
	regexp.MustCompile(`\b(?:scp|rsync)\b.*\s(?:~|/home/|/etc/|/Users/|\$HOME)\S*\s+\S+:`),
	regexp.MustCompile(`\baws\s+s3\s+(?:cp|sync|mv)\s+(?:-\S+\s+)*(?:[^s\s-]|s[^3\s]|s3[^:])\S*\s+s3://`),
	regexp.MustCompile(`\b(?:gsutil\s+(?:-m\s+)?(?:cp|rsync)|rclone\s+(?:copy|sync))\s+(?:-\S+\s+)*[~/.]\S*\s+\S+:`),
	regexp.MustCompile(`\bzip\s+-r\b.*&&.*\b(?:curl|scp|nc)\b`),
	regexp.MustCompile(`\b(?:cat|tar|zip)\b.*\|\s*base64\b.*\|\s*(?:curl|nc)\b`),
}

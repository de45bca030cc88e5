// Package industry 提供各行业的讽刺语气参数
package industry

import (
	"sort"
	"strings"
)

// Profile 行业语气参数，直接代入提示词模板
type Profile struct {
	Key            string   `json:"key"`
	Name           string   `json:"name"`
	TargetAudience string   `json:"target_audience"`
	Myths          []string `json:"myths"`
	Jargon         []string `json:"jargon"`
	// Contexts 标题阶段随机抽取的情境种子
	Contexts []string `json:"contexts"`
}

// MythList 以分号拼接的迷思列表
func (p Profile) MythList() string {
	return strings.Join(p.Myths, "; ")
}

// JargonList 以逗号拼接的行话列表
func (p Profile) JargonList() string {
	return strings.Join(p.Jargon, ", ")
}

var profiles = map[string]Profile{
	"self-help": {
		Key:            "self-help",
		Name:           "Self-Help",
		TargetAudience: "overwhelmed professionals who buy books instead of changing habits",
		Myths: []string{
			"waking up at 4am fixes everything",
			"gratitude journaling replaces therapy",
			"you are one mindset shift away from millions",
		},
		Jargon: []string{"growth mindset", "manifesting", "abundance", "morning stack", "limiting beliefs", "10x"},
		Contexts: []string{
			"The Art of...",
			"a guide to doing less while appearing busy",
			"habits of people who read habit books",
			"unlocking your inner CEO of your inner child",
			"a 30-day program that takes 90 days",
		},
	},
	"tech-startup": {
		Key:            "tech-startup",
		Name:           "Tech Startups",
		TargetAudience: "founders between pivots and engineers awaiting their equity cliff",
		Myths: []string{
			"dropping out guarantees a unicorn",
			"every problem needs an app",
			"burn rate is a personality trait",
		},
		Jargon: []string{"disrupt", "blitzscale", "product-market fit", "runway", "north star metric", "AI-native"},
		Contexts: []string{
			"pitching a seed round for a company that does not exist yet",
			"the founder's guide to pivoting weekly",
			"building in public while hiding the metrics",
			"raising money for an AI wrapper around a spreadsheet",
		},
	},
	"wellness": {
		Key:            "wellness",
		Name:           "Wellness",
		TargetAudience: "people who own more crystals than vegetables",
		Myths: []string{
			"detox teas remove toxins",
			"expensive water is more hydrating",
			"a retreat cures burnout caused by work",
		},
		Jargon: []string{"holistic", "energy alignment", "clean eating", "biohacking", "self-care", "vibration"},
		Contexts: []string{
			"a cleanse that cleanses your wallet",
			"optimizing sleep with seventeen gadgets",
			"mindfulness for people too busy to be mindful",
			"the ancient wisdom invented last quarter",
		},
	},
	"finance": {
		Key:            "finance",
		Name:           "Personal Finance",
		TargetAudience: "aspiring millionaires with a budgeting app and no budget",
		Myths: []string{
			"skipping lattes funds early retirement",
			"passive income requires no work",
			"everyone else is secretly rich",
		},
		Jargon: []string{"passive income", "financial freedom", "side hustle", "diversify", "compound interest", "alpha"},
		Contexts: []string{
			"getting rich by reading about getting rich",
			"a side hustle for your side hustle",
			"retiring at thirty-five and working until seventy",
			"crypto explained by someone who lost it all",
		},
	},
	"productivity": {
		Key:            "productivity",
		Name:           "Productivity",
		TargetAudience: "knowledge workers who reorganize their to-do list instead of doing it",
		Myths: []string{
			"the right app makes you productive",
			"inbox zero is enlightenment",
			"multitasking is a skill",
		},
		Jargon: []string{"deep work", "time blocking", "second brain", "flow state", "sprints", "leverage"},
		Contexts: []string{
			"color-coding a calendar until it is full",
			"the productivity system for choosing a productivity system",
			"working four hours a week on paper",
			"meetings about reducing meetings",
		},
	},
	"corporate": {
		Key:            "corporate",
		Name:           "Corporate Leadership",
		TargetAudience: "middle managers who quote leadership books in one-on-ones",
		Myths: []string{
			"culture is a ping-pong table",
			"synergy can be scheduled",
			"a reorg fixes strategy",
		},
		Jargon: []string{"circle back", "alignment", "bandwidth", "move the needle", "stakeholders", "low-hanging fruit"},
		Contexts: []string{
			"leading from the middle of the org chart",
			"a town hall that could have been an email",
			"radical candor delivered passive-aggressively",
			"the offsite that changed nothing",
		},
	},
}

// Get 根据行业键获取参数
func Get(key string) (Profile, bool) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(key))]
	return p, ok
}

// Keys 返回所有行业键（有序）
func Keys() []string {
	keys := make([]string, 0, len(profiles))
	for k := range profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All 返回全部行业参数（按键排序）
func All() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, k := range Keys() {
		out = append(out, profiles[k])
	}
	return out
}

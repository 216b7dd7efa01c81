package intent

import (
	"fmt"
	"regexp"
)

// queryPattern maps natural-language query regexes to an action with
// per-OS command templates. Patterns are matched against the lowercased,
// trimmed query; the first matching entry wins.
type queryPattern struct {
	action        string
	patterns      []*regexp.Regexp
	defaultParams map[string]string
	contextNeeded []string
	// templates holds command templates keyed by platform family
	// ("unix", "windows") or, for package operations, by package manager.
	templates map[string]string
}

func mustCompile(patterns ...string) []*regexp.Regexp {
	result := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled, err := regexp.Compile(p)
		if err != nil {
			panic(fmt.Sprintf("invalid builtin query pattern %q: %v", p, err))
		}
		result = append(result, compiled)
	}
	return result
}

var queryPatterns = []queryPattern{
	// File and directory operations
	{
		action:        "list",
		patterns:      mustCompile(`list.*files?`, `show.*files?`, `what.*files?.*here`, `ls\s`, `dir\s`),
		defaultParams: map[string]string{"type": "files"},
		contextNeeded: []string{"current_directory"},
		templates:     map[string]string{"unix": "ls -la {target}", "windows": "dir {target}"},
	},
	{
		action:        "list_python",
		patterns:      mustCompile(`list.*python.*files?`, `show.*\.py.*files?`, `find.*python.*files?`),
		defaultParams: map[string]string{"extension": ".py"},
		contextNeeded: []string{"current_directory"},
		templates:     map[string]string{"unix": "find . -name '*.py' -type f", "windows": `dir /s *.py`},
	},
	{
		action:        "create_directory",
		patterns:      mustCompile(`create.*director(y|ies)`, `make.*director(y|ies)`, `mkdir\s`),
		contextNeeded: []string{"current_directory"},
		templates:     map[string]string{"unix": "mkdir -p {target}", "windows": "mkdir {target}"},
	},
	{
		action:        "remove_file",
		patterns:      mustCompile(`delete.*file`, `remove.*file`, `rm\s`),
		contextNeeded: []string{"current_directory"},
		templates:     map[string]string{"unix": "rm {target}", "windows": "del {target}"},
	},
	{
		action:        "copy_file",
		patterns:      mustCompile(`copy.*file`, `cp\s`),
		contextNeeded: []string{"current_directory"},
		templates:     map[string]string{"unix": "cp {source} {target}", "windows": "copy {source} {target}"},
	},
	{
		action:        "move_file",
		patterns:      mustCompile(`move.*file`, `mv\s`),
		contextNeeded: []string{"current_directory"},
		templates:     map[string]string{"unix": "mv {source} {target}", "windows": "move {source} {target}"},
	},

	// Git operations
	{
		action:        "git_status",
		patterns:      mustCompile(`git.*status`, `check.*git.*status`, `what.*git.*status`, `show.*git.*status`),
		contextNeeded: []string{"git_repository"},
		templates:     map[string]string{"unix": "git status", "windows": "git status"},
	},
	{
		action:        "git_add_all",
		patterns:      mustCompile(`git.*add.*all`, `stage.*all.*changes`, `add.*all.*files`),
		contextNeeded: []string{"git_repository"},
		templates:     map[string]string{"unix": "git add .", "windows": "git add ."},
	},
	{
		action:        "git_commit",
		patterns:      mustCompile(`git.*commit`, `commit.*changes`, `make.*commit`),
		contextNeeded: []string{"git_repository", "git_status"},
		templates:     map[string]string{"unix": `git commit -m "{message}"`, "windows": `git commit -m "{message}"`},
	},
	{
		action:        "git_push",
		patterns:      mustCompile(`git.*push`, `push.*changes`, `upload.*changes`),
		contextNeeded: []string{"git_repository", "git_branch"},
		templates:     map[string]string{"unix": "git push origin {branch}", "windows": "git push origin {branch}"},
	},
	{
		action:        "git_pull",
		patterns:      mustCompile(`git.*pull`, `pull.*changes`, `update.*from.*remote`),
		contextNeeded: []string{"git_repository", "git_branch"},
		templates:     map[string]string{"unix": "git pull origin {branch}", "windows": "git pull origin {branch}"},
	},
	{
		action:        "git_log",
		patterns:      mustCompile(`git.*log`, `show.*git.*history`, `git.*history`),
		contextNeeded: []string{"git_repository"},
		templates:     map[string]string{"unix": "git log --oneline -10", "windows": "git log --oneline -10"},
	},

	// System information
	{
		action:        "system_info",
		patterns:      mustCompile(`system.*info`, `show.*system`, `what.*system`, `uname`),
		contextNeeded: []string{"operating_system"},
		templates:     map[string]string{"unix": "uname -a", "windows": "systeminfo"},
	},
	{
		action:        "disk_usage",
		patterns:      mustCompile(`disk.*usage`, `disk.*space`, `show.*disk`, `df\s`),
		contextNeeded: []string{"operating_system"},
		templates:     map[string]string{"unix": "df -h", "windows": "dir"},
	},
	{
		action:        "memory_usage",
		patterns:      mustCompile(`memory.*usage`, `show.*memory`, `ram.*usage`, `free\s`),
		contextNeeded: []string{"operating_system"},
		templates: map[string]string{
			"unix":    "free -h",
			"windows": "wmic OS get TotalVisibleMemorySize,FreePhysicalMemory /format:table",
		},
	},

	// Process management
	{
		action:        "list_processes",
		patterns:      mustCompile(`list.*processes`, `show.*processes`, `ps\s`, `running.*processes`),
		contextNeeded: []string{"operating_system"},
		templates:     map[string]string{"unix": "ps aux", "windows": "tasklist"},
	},
	{
		action:        "kill_process",
		patterns:      mustCompile(`kill.*process`, `stop.*process`, `terminate.*process`),
		contextNeeded: []string{"operating_system"},
		templates:     map[string]string{"unix": "kill {pid}", "windows": "taskkill /PID {pid}"},
	},

	// Network operations
	{
		action:    "ping",
		patterns:  mustCompile(`ping\s`, `test.*connection`, `check.*connectivity`),
		templates: map[string]string{"unix": "ping -c 4 {target}", "windows": "ping {target}"},
	},
	{
		action:    "curl_get",
		patterns:  mustCompile(`curl\s`, `download.*from`, `fetch.*from`, `get.*from.*url`),
		templates: map[string]string{"unix": "curl -L {url}", "windows": "curl -L {url}"},
	},

	// Package management. These templates are keyed by package manager,
	// not platform, so Template returns nothing for them and generation
	// falls through to the provider.
	{
		action:        "install_package",
		patterns:      mustCompile(`install.*package`, `npm.*install`, `pip.*install`, `apt.*install`, `brew.*install`),
		contextNeeded: []string{"available_tools"},
		templates: map[string]string{
			"npm":  "npm install {package}",
			"pip":  "pip install {package}",
			"apt":  "sudo apt install {package}",
			"brew": "brew install {package}",
		},
	},
	{
		action:        "uninstall_package",
		patterns:      mustCompile(`uninstall.*package`, `remove.*package`, `npm.*uninstall`, `pip.*uninstall`),
		contextNeeded: []string{"available_tools"},
		templates: map[string]string{
			"npm":  "npm uninstall {package}",
			"pip":  "pip uninstall {package}",
			"apt":  "sudo apt remove {package}",
			"brew": "brew uninstall {package}",
		},
	},

	// Docker operations
	{
		action:        "docker_list",
		patterns:      mustCompile(`docker.*list`, `list.*containers`, `show.*containers`, `docker.*ps`),
		contextNeeded: []string{"available_tools"},
		templates:     map[string]string{"unix": "docker ps -a", "windows": "docker ps -a"},
	},
	{
		action:        "docker_images",
		patterns:      mustCompile(`docker.*images`, `list.*images`, `show.*images`),
		contextNeeded: []string{"available_tools"},
		templates:     map[string]string{"unix": "docker images", "windows": "docker images"},
	},

	// Text processing
	{
		action:        "search_text",
		patterns:      mustCompile(`search.*for`, `find.*text`, `grep\s`, `look.*for`),
		contextNeeded: []string{"current_directory"},
		templates:     map[string]string{"unix": `grep -r "{pattern}" {path}`, "windows": `findstr /s "{pattern}" {path}`},
	},
	{
		action:        "count_lines",
		patterns:      mustCompile(`count.*lines`, `how.*many.*lines`, `wc.*-l`),
		contextNeeded: []string{"current_directory"},
		templates:     map[string]string{"unix": "wc -l {file}", "windows": `find /c /v "" {file}`},
	},
}

// patternByAction looks up the table entry for an action.
func patternByAction(action string) (queryPattern, bool) {
	for _, p := range queryPatterns {
		if p.action == action {
			return p, true
		}
	}
	return queryPattern{}, false
}

// Actions returns every action the pattern table can produce.
func Actions() []string {
	result := make([]string, 0, len(queryPatterns))
	for _, p := range queryPatterns {
		result = append(result, p.action)
	}
	return result
}

package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var nameRe = regexp.MustCompile(`^[A-Za-z]+[A-Za-z0-9-_]*$`)

// Duration 让 yaml.v3 能解析 "10s" 这样的时长写法，裸数字按秒算
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		var secs int64
		if _, serr := fmt.Sscanf(raw, "%d", &secs); serr == nil {
			*d = Duration(time.Duration(secs) * time.Second)
			return nil
		}
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

// ProjectRecord 是项目清单文件里的一条项目定义
type ProjectRecord struct {
	Key            string              `yaml:"key"`
	Name           string              `yaml:"name"`
	Icon           string              `yaml:"icon,omitempty"`
	Summary        string              `yaml:"summary,omitempty"`
	Tags           []string            `yaml:"tags,omitempty"`
	Favorite       bool                `yaml:"favorite,omitempty"`
	DefaultProfile string              `yaml:"defaultProfile,omitempty"`
	Profiles       map[string]*Profile `yaml:"profiles"`
	QuickLinks     []LinkDefinition    `yaml:"quickLinks,omitempty"`
	Folders        []FolderDefinition  `yaml:"folders,omitempty"`
}

type Profile struct {
	Components []*ComponentDefinition `yaml:"components"`
}

type ComponentDefinition struct {
	Name       string             `yaml:"name"`
	Summary    string             `yaml:"summary,omitempty"`
	WorkDir    string             `yaml:"workDir,omitempty"`
	Command    string             `yaml:"command"`
	Env        []string           `yaml:"env,omitempty"`
	StopSignal string             `yaml:"stopSignal,omitempty"`
	Checks     []*CheckDefinition `yaml:"checks,omitempty"`
}

type CheckDefinition struct {
	Label    string   `yaml:"label"`
	Kind     string   `yaml:"kind"`
	Target   string   `yaml:"target,omitempty"`
	Command  string   `yaml:"command,omitempty"`
	Interval Duration `yaml:"interval,omitempty"`
	Timeout  Duration `yaml:"timeout,omitempty"`
}

type LinkDefinition struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type FolderDefinition struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

// Validate 检查项目定义的完整性，键名和组件名必须符合命名规则
func (r *ProjectRecord) Validate() error {
	if !nameRe.MatchString(r.Key) {
		return fmt.Errorf("invalid project key %q, must be consist of 'a-z A-Z 0-9 - _'", r.Key)
	}
	if r.Name == "" {
		r.Name = r.Key
	}
	if len(r.Profiles) == 0 {
		return fmt.Errorf("project %s has no profiles", r.Key)
	}
	if r.DefaultProfile == "" {
		if _, ok := r.Profiles["default"]; ok {
			r.DefaultProfile = "default"
		} else {
			for name := range r.Profiles {
				r.DefaultProfile = name
				break
			}
		}
	}
	if _, ok := r.Profiles[r.DefaultProfile]; !ok {
		return fmt.Errorf("project %s default profile %q is not defined", r.Key, r.DefaultProfile)
	}

	for pname, profile := range r.Profiles {
		if profile == nil || len(profile.Components) == 0 {
			return fmt.Errorf("project %s profile %s has no components", r.Key, pname)
		}
		seen := make(map[string]bool, len(profile.Components))
		for _, comp := range profile.Components {
			if !nameRe.MatchString(comp.Name) {
				return fmt.Errorf("invalid component name %q, must be consist of 'a-z A-Z 0-9 - _'", comp.Name)
			}
			if seen[comp.Name] {
				return fmt.Errorf("project %s profile %s has duplicate component %s", r.Key, pname, comp.Name)
			}
			seen[comp.Name] = true
			if strings.TrimSpace(comp.Command) == "" {
				return fmt.Errorf("component %s/%s has empty command", r.Key, comp.Name)
			}
			if comp.StopSignal == "" {
				comp.StopSignal = "TERM"
			}
			for _, check := range comp.Checks {
				if err := check.validate(r.Key, comp.Name); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (c *CheckDefinition) validate(project, component string) error {
	switch c.Kind {
	case "http", "tcp":
		if c.Target == "" {
			return fmt.Errorf("check %q on %s/%s needs a target", c.Label, project, component)
		}
	case "command":
		if strings.TrimSpace(c.Command) == "" {
			return fmt.Errorf("check %q on %s/%s needs a command", c.Label, project, component)
		}
	default:
		return fmt.Errorf("check %q on %s/%s has unknown kind %q", c.Label, project, component, c.Kind)
	}
	if c.Label == "" {
		return fmt.Errorf("check on %s/%s needs a label", project, component)
	}
	return nil
}

// Argv 把命令行拆成 exec 参数，带引号的整句交给 shell 解释
func (c *ComponentDefinition) Argv() []string {
	return splitCommand(c.Command)
}

// CommandArgv 是健康检查命令的拆分，规则与组件命令一致
func (c *CheckDefinition) CommandArgv() []string {
	return splitCommand(c.Command)
}

func splitCommand(command string) []string {
	cmd := strings.TrimSpace(command)
	if strings.Contains(cmd, `"`) || strings.Contains(cmd, `'`) {
		return []string{"sh", "-c", cmd}
	}
	return strings.Fields(cmd)
}

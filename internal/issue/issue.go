// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ScriptNotFoundId Id = iota + 1
	InvalidScriptNameId
	SessionSetupFailedId
	ScriptCompileFailedId
	ScriptRuntimeFaultId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Script not found!

lunash looked for ` + "`<name>.lunash.lua`" + ` and found nothing.

## Search locations (in order of precedence):
1. Current directory
2. Your scripts directory (` + "`~/.local/share/lunash/scripts`" + ` on Linux)
3. Each directory in ` + "`LUA_SCRIPT_PATH`" + `, then ` + "`search_paths`" + ` from your config file

## Things you can try:
- Check the spelling of the script name (no extension, no directories)
- Create the script where lunash looks for it:
~~~
$ echo 'print("hello")' > hello.lunash.lua
$ lunash run hello
~~~

- Add a directory to the search path:
~~~
$ export LUA_SCRIPT_PATH="$HOME/lua-scripts"
~~~`,
	}

	invalidScriptNameIssue = &Issue{
		id: InvalidScriptNameId,
		mdMsg: `
# Invalid script name!

Scripts are referred to by name, not by path.

## Rules:
- The name must not be empty or only whitespace
- The name must not contain ` + "`/`" + ` or ` + "`\\`" + `
- Leave out the ` + "`.lunash.lua`" + ` suffix

## Things you can try:
- Run ` + "`lunash run deploy`" + ` instead of ` + "`lunash run ./deploy.lunash.lua`" + `
- Move the script into a directory listed in ` + "`LUA_SCRIPT_PATH`",
	}

	sessionSetupFailedIssue = &Issue{
		id: SessionSetupFailedId,
		mdMsg: `
# Failed to prepare the Lua session!

The script was found but lunash could not get ready to run it.

## Common causes:
- The script file could not be read (permissions, removed while starting)
- ` + "`http.proxy`" + ` in your configuration is not a valid URL
- A module name collides with a reserved global

## Things you can try:
- Check the file permissions of the script
- Run ` + "`lunash config show`" + ` and review the http section
- Re-run with ` + "`--verbose`" + ` for the full error chain`,
	}

	scriptCompileFailedIssue = &Issue{
		id: ScriptCompileFailedId,
		mdMsg: `
# Script failed to compile!

The script contains a Lua syntax error. lunash runs Lua 5.1.

## Common issues:
- Missing ` + "`end`" + ` for a ` + "`function`" + `, ` + "`if`" + ` or ` + "`for`" + ` block
- Lua 5.3+ syntax such as ` + "`//`" + `, ` + "`goto`" + ` or bitwise operators (use the ` + "`bit`" + ` module)
- Unbalanced quotes or brackets

## Things you can try:
- Open the file at the line named in the message above
- Check the script with ` + "`luac -p`" + ` if a Lua 5.1 toolchain is installed`,
	}

	scriptRuntimeFaultIssue = &Issue{
		id: ScriptRuntimeFaultId,
		mdMsg: `
# Script raised an error!

The script stopped with an uncaught Lua error.

## Things you can try:
- Read the message and stack trace above; native errors look like ` + "`module.op: cause`" + `
- Wrap calls that may fail in ` + "`pcall`" + `:
~~~lua
local ok, err = pcall(http.get, "https://example.com")
if not ok then print("request failed: " .. err) end
~~~

- Re-run with ` + "`--verbose`" + ` for the full stack trace`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be loaded or contains invalid values.

## Things you can try:
- Check the CUE syntax of your config file
- Print the file location:
~~~
$ lunash config path
~~~

- Recreate a default configuration:
~~~
$ lunash config init
~~~

- Check ` + "`LUNASH_*`" + ` environment variables for invalid values`,
	}

	// issues is ordered by Id.
	issues = []*Issue{
		scriptNotFoundIssue,
		invalidScriptNameIssue,
		sessionSetupFailedIssue,
		scriptCompileFailedIssue,
		scriptRuntimeFaultIssue,
		configLoadFailedIssue,
	}
)

// Values returns every catalog entry in Id order.
func Values() []*Issue {
	return slices.Clone(issues)
}

// Get returns the entry for id, or nil if there is none.
func Get(id Id) *Issue {
	idx := slices.IndexFunc(issues, func(i *Issue) bool { return i.id == id })
	if idx < 0 {
		return nil
	}
	return issues[idx]
}

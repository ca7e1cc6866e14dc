// Copyright 2025 Arclens
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/arclens/ckb/internal/errors"
)

// bashCompletionTemplate is the bash completion script for ckb.
const bashCompletionTemplate = `#!/bin/bash

# Bash completion script for ckb
# Installation:
#   source <(ckb completion bash)
#   Or add to ~/.bashrc:
#   echo 'source <(ckb completion bash)' >> ~/.bashrc

_ckb_completion() {
    local cur prev commands
    commands="analyze query status export completion"

    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    if [[ ${cur} == -* ]] ; then
        COMPREPLY=( $(compgen -W "--quiet --no-color --json --version" -- ${cur}) )
        return 0
    fi

    if [ $COMP_CWORD -eq 1 ]; then
        COMPREPLY=( $(compgen -W "${commands}" -- ${cur}) )
        return 0
    fi

    local cmd="${COMP_WORDS[1]}"
    case "${cmd}" in
        analyze)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--include --exclude --threads --incremental --output --metrics-addr" -- ${cur}) )
            fi
            ;;
        query)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--project --function --file --query" -- ${cur}) )
            fi
            ;;
        status)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--verbose --metrics-addr" -- ${cur}) )
            fi
            ;;
        export)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--project --type --format --output --focus --max-depth" -- ${cur}) )
            fi
            ;;
        completion)
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "bash zsh fish" -- ${cur}) )
            fi
            ;;
    esac
}

complete -F _ckb_completion ckb
`

// zshCompletionTemplate is the zsh completion script for ckb.
const zshCompletionTemplate = `#compdef ckb

# Zsh completion script for ckb
# Installation:
#   1. Ensure compinit is loaded (add to ~/.zshrc if not present):
#      autoload -U compinit; compinit
#   2. Save this script to a directory in your fpath:
#      ckb completion zsh > "${fpath[1]}/_ckb"

_ckb() {
    local -a commands
    commands=(
        'analyze:Analyze a C repository into the knowledge base'
        'query:Ask a question or inspect graph context for a project'
        'status:Show knowledge base status'
        'export:Render a call-graph or dependency graph'
        'completion:Generate shell completion script'
    )

    _arguments -C \
        '(- *)--version[Show version and exit]' \
        '--quiet[Suppress progress output]' \
        '--no-color[Disable colored output]' \
        '--json[Output machine-readable JSON]' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                analyze)
                    _arguments \
                        '--include[Comma-separated include globs]:globs:' \
                        '--exclude[Comma-separated exclude globs]:globs:' \
                        '--threads[Parallel parse workers]:workers:' \
                        '--incremental[Skip unchanged files via checkpoint]' \
                        '--output[Checkpoint/cache directory]:dir:_files -/' \
                        '--metrics-addr[Prometheus metrics address]:address:'
                    ;;
                query)
                    _arguments \
                        '--project[Project name or id]:project:' \
                        '--function[Focus function]:function:' \
                        '--file[Focus file]:file:_files' \
                        '--query[Question to ask]:question:'
                    ;;
                status)
                    _arguments \
                        '--verbose[Include per-project call-edge counts]' \
                        '--metrics-addr[Prometheus metrics address]:address:'
                    ;;
                export)
                    _arguments \
                        '--project[Project name or id]:project:' \
                        '--type[Graph to export]:type:(calls deps all)' \
                        '--format[Output format]:format:(json md html dot)' \
                        '--output[Output file path]:file:_files' \
                        '--focus[Focus node]:focus:'
                    ;;
                completion)
                    _arguments \
                        '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

_ckb
`

// fishCompletionTemplate is the fish completion script for ckb.
const fishCompletionTemplate = `# Fish completion script for ckb
# Installation:
#   1. Load completions for current session:
#      ckb completion fish | source
#   2. Install permanently:
#      ckb completion fish > ~/.config/fish/completions/ckb.fish

complete -c ckb -f -n "__fish_use_subcommand" -a "analyze" -d "Analyze a C repository into the knowledge base"
complete -c ckb -f -n "__fish_use_subcommand" -a "query" -d "Ask a question about an analyzed project"
complete -c ckb -f -n "__fish_use_subcommand" -a "status" -d "Show knowledge base status"
complete -c ckb -f -n "__fish_use_subcommand" -a "export" -d "Render a call-graph or dependency graph"
complete -c ckb -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

# Global flags
complete -c ckb -l version -d "Show version and exit"
complete -c ckb -l quiet -d "Suppress progress output"
complete -c ckb -l no-color -d "Disable colored output"
complete -c ckb -l json -d "Output machine-readable JSON"

# analyze command flags
complete -c ckb -n "__fish_seen_subcommand_from analyze" -l include -d "Comma-separated include globs" -r
complete -c ckb -n "__fish_seen_subcommand_from analyze" -l exclude -d "Comma-separated exclude globs" -r
complete -c ckb -n "__fish_seen_subcommand_from analyze" -l threads -d "Parallel parse workers" -r
complete -c ckb -n "__fish_seen_subcommand_from analyze" -l incremental -d "Skip unchanged files via checkpoint"
complete -c ckb -n "__fish_seen_subcommand_from analyze" -l output -d "Checkpoint/cache directory" -r
complete -c ckb -n "__fish_seen_subcommand_from analyze" -l metrics-addr -d "Prometheus metrics address" -r

# query command flags
complete -c ckb -n "__fish_seen_subcommand_from query" -l project -d "Project name or id" -r
complete -c ckb -n "__fish_seen_subcommand_from query" -l function -d "Focus function" -r
complete -c ckb -n "__fish_seen_subcommand_from query" -l file -d "Focus file" -r
complete -c ckb -n "__fish_seen_subcommand_from query" -l query -d "Question to ask" -r

# status command flags
complete -c ckb -n "__fish_seen_subcommand_from status" -l verbose -d "Include per-project call-edge counts"
complete -c ckb -n "__fish_seen_subcommand_from status" -l metrics-addr -d "Prometheus metrics address" -r

# export command flags
complete -c ckb -n "__fish_seen_subcommand_from export" -l project -d "Project name or id" -r
complete -c ckb -n "__fish_seen_subcommand_from export" -l type -d "Graph to export" -r
complete -c ckb -n "__fish_seen_subcommand_from export" -l format -d "Output format" -r
complete -c ckb -n "__fish_seen_subcommand_from export" -l output -d "Output file path" -r

# completion command arguments
complete -c ckb -n "__fish_seen_subcommand_from completion" -f -a "bash" -d "Generate bash completion script"
complete -c ckb -n "__fish_seen_subcommand_from completion" -f -a "zsh" -d "Generate zsh completion script"
complete -c ckb -n "__fish_seen_subcommand_from completion" -f -a "fish" -d "Generate fish completion script"
`

// runCompletion executes the 'completion' CLI command, generating
// shell-specific completion scripts for bash, zsh, or fish.
//
// Usage:
//
//	ckb completion [bash|zsh|fish]
func runCompletion(args []string) {
	if len(args) != 1 {
		errors.FatalError(errors.NewConfigError(
			"invalid arguments",
			"the completion command requires exactly one argument: the shell name",
			"run 'ckb completion bash', 'ckb completion zsh', or 'ckb completion fish'",
			nil,
		), false)
	}

	switch args[0] {
	case "bash":
		fmt.Print(bashCompletionTemplate)
	case "zsh":
		fmt.Print(zshCompletionTemplate)
	case "fish":
		fmt.Print(fishCompletionTemplate)
	default:
		errors.FatalError(errors.NewConfigError(
			"unsupported shell",
			fmt.Sprintf("shell %q is not supported. Valid options: bash, zsh, fish", args[0]),
			"run 'ckb completion bash', 'ckb completion zsh', or 'ckb completion fish'",
			nil,
		), false)
	}
}

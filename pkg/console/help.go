package console

const banner = `
    ╔══════════════════════════════════════════╗
    ║              SHIELD AI                   ║
    ╚══════════════════════════════════════════╝
`

const intro = `Security Agent initialized! This agent can:
- Analyze code for security vulnerabilities
- Suggest and apply security fixes
- Monitor file changes for security concerns

Commands:
check   - Analyze file/code block for security issues
fix     - Fix detected security issues
monitor - Watch files for security concerns
help    - Show detailed help
config  - Show or change settings
exit    - Exit the agent
`

const helpText = `
Security Analysis Commands:
-------------------------
check <file> [lines]     - Check file for security issues
  Examples:
  - check index.js
  - check index.js 10-50

Fix Commands:
------------
fix <file> [lines]       - Apply security fixes
  Examples:
  - fix index.js
  - fix index.js 25-30
  - fix vulnerable-code.js --autofix

Monitor Commands:
---------------
monitor <path>           - Watch files for security issues (Ctrl-C stops)
  Examples:
  - monitor ./src
  - monitor index.js --interval=5s
  - monitor ./ --exclude=dist/

Configuration:
-------------
config                   - Show current configuration
config set <key> <value> - Update configuration
  Examples:
  - config set apiKey YOUR_NEW_API_KEY
  - config set scanLevel thorough
  - config set autoFix true
  - config set rules.dependencies false
`

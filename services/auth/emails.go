package auth

import "time"

// timeNow is swapped in tests to control code expiry.
var timeNow = time.Now

const emailValidationBody = `<html>
<body>
<p>Hi %s,</p>
<p>Welcome! Please confirm your email address by clicking the link below:</p>
<p><a href="%s">Validate my email</a></p>
<p>If you did not create this account, you can ignore this message.</p>
</body>
</html>`

const resetPasswordBody = `<html>
<body>
<p>Hi %s,</p>
<p>We received a request to reset your password. Open the link below and enter your one-time code:</p>
<p><a href="%s">Reset my password</a></p>
<p>Your code: <strong>%s</strong></p>
<p>The code expires in %d minutes. If you did not request a reset, you can ignore this message.</p>
</body>
</html>`
